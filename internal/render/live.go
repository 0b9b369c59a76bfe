package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dkoosis/tmx/internal/matrix"
)

// Live repaints the table in place on every snapshot. On a TTY it erases
// the previous frame with ANSI cursor movement; on a plain writer it
// prints each frame in sequence. Safe for concurrent Update calls: matrix
// mutations and the poll loop both trigger renders.
type Live struct {
	mu        sync.Mutex
	w         io.Writer
	table     *Table
	tty       bool
	prevLines int
}

// NewLive creates a live reporter writing to w.
func NewLive(w io.Writer, table *Table, tty bool) *Live {
	return &Live{w: w, table: table, tty: tty}
}

// Update renders the snapshot, replacing the previous frame on a TTY.
func (l *Live) Update(entries []matrix.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.table.Render(entries)
	if out == "" {
		return
	}
	if l.tty && l.prevLines > 0 {
		fmt.Fprintf(l.w, "\033[%dA\033[J", l.prevLines)
	}
	fmt.Fprint(l.w, out)
	l.prevLines = strings.Count(out, "\n")
}

// Final prints the snapshot once more without erasing, so the table
// survives in scrollback after the run ends.
func (l *Live) Final(entries []matrix.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prevLines = 0
	fmt.Fprint(l.w, l.table.Render(entries))
}
