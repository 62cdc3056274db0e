package engine

import (
	"time"

	"github.com/kestrel-engine/kestrel/pkg/board"
)

// Clock carries the UCI `go` command's time-control arguments. A zero Clock
// (no field set) means "no time control": the caller must rely on Movetime
// or Infinite instead.
type Clock struct {
	WTime, BTime time.Duration
	WInc, BInc   time.Duration
	MovesToGo    int
}

// deadline computes how long a search may run, per the engine's time-control
// policy: base = increment; if the remaining clock exceeds the increment,
// reserve the increment and add a 25th of what's left; clamp to
// [1000ms, remaining/2]. Movetime and infinite, when set, override the clock
// entirely.
func deadline(turn board.Color, c Clock, movetime time.Duration, infinite bool) time.Duration {
	if infinite {
		return 365 * 24 * time.Hour
	}
	if movetime > 0 {
		return movetime
	}

	t, inc := c.WTime, c.WInc
	if turn == board.Black {
		t, inc = c.BTime, c.BInc
	}
	if t <= 0 {
		return 365 * 24 * time.Hour
	}

	base := inc
	if t > inc {
		t -= inc
		base += t / 25
	}

	min, max := time.Second, t/2
	switch {
	case base < min:
		return min
	case max > 0 && base > max:
		return max
	default:
		return base
	}
}
