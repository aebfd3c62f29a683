package synthesis

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// rngReader adapts a *rand.Rand into an io.Reader so google/uuid can draw
// deterministic random bytes from our single seeded source instead of
// crypto/rand, keeping every byte of a "gen --seed N" run reproducible.
type rngReader struct {
	rng *rand.Rand
}

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}

// newUUID draws a deterministic v4 UUID from rng.
func newUUID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rngReader{rng: rng})
	if err != nil {
		// rngReader never errors; this path is unreachable in practice.
		return uuid.Nil.String()
	}
	return id.String()
}

// pkCounter hands out sequential integer primary keys starting at 1.
type pkCounter struct {
	next int64
}

func newPKCounter() *pkCounter {
	return &pkCounter{next: 1}
}

func (c *pkCounter) Next() int64 {
	v := c.next
	c.next++
	return v
}
