// Package progress renders an inline progress bar on a TTY and falls back
// to a single summary line when stderr isn't one (redirected into a file
// or another process).
package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const barWidth = 30

var isTTY = sync.OnceValue(func() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
})

// Bar renders an inline progress bar on TTY; no-op otherwise.
func Bar(name string, current, total int64) {
	if !isTTY() || total <= 0 {
		return
	}
	pct := float64(current) / float64(total)
	filled := int(pct * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	fmt.Fprintf(os.Stderr, "\r[%s] %s %d/%d (%.0f%%)", name, bar, current, total, pct*100)
}

// Done prints the final progress state for name: a full bar on TTY, or a
// single summary line otherwise.
func Done(name string, total int) {
	if isTTY() {
		bar := strings.Repeat("█", barWidth)
		fmt.Fprintf(os.Stderr, "\r[%s] %s %d/%d (100%%)\n", name, bar, total, total)
	} else {
		fmt.Fprintf(os.Stderr, "[%s] %d rows generated\n", name, total)
	}
}
