// Package stats implements the column-level statistics this system profiles
// a database into: reservoir sampling, histogram construction, and the
// Distribution summary that feeds both the genome and the synthesiser.
package stats

import "math/rand/v2"

// DefaultReservoirCapacity bounds per-column sample storage at constant
// memory regardless of table size.
const DefaultReservoirCapacity = 10_000

// Reservoir holds a uniform random sample of up to Capacity items drawn
// from a stream of unknown (and possibly unbounded) length, using Vitter's
// Algorithm R. Each Reservoir has exactly one writer — the profiler task
// that owns the column or joint-tuple stream it samples — so no internal
// locking is needed; TotalSeen is a plain counter, not atomic.
type Reservoir[T any] struct {
	Capacity  int
	Items     []T
	TotalSeen int64
}

// NewReservoir creates an empty reservoir with the given capacity.
func NewReservoir[T any](capacity int) *Reservoir[T] {
	if capacity <= 0 {
		capacity = DefaultReservoirCapacity
	}
	return &Reservoir[T]{
		Capacity: capacity,
		Items:    make([]T, 0, capacity),
	}
}

// Add offers one item to the reservoir. The first Capacity items are kept
// unconditionally; subsequent items replace a uniformly random existing
// slot with probability Capacity/TotalSeen.
func (r *Reservoir[T]) Add(item T) {
	r.TotalSeen++
	if len(r.Items) < r.Capacity {
		r.Items = append(r.Items, item)
		return
	}
	j := rand.Int64N(r.TotalSeen)
	if j < int64(r.Capacity) {
		r.Items[j] = item
	}
}

// Len returns the number of items currently held (not TotalSeen).
func (r *Reservoir[T]) Len() int {
	return len(r.Items)
}
