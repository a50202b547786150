// Package input turns keyboard and evdev key events into touches.
package input

import "fmt"

type Phase uint8

const (
	Started Phase = iota
	Moved
	Stationary
	Ended
	Cancelled
)

var phaseNames = [...]string{"started", "moved", "stationary", "ended", "cancelled"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Touch is a pointer event in screen space, Time in chart seconds.
type Touch struct {
	ID    int
	Phase Phase
	X, Y  float64
	Time  float64
	// Key is set for touches made by a key rather than a finger.
	Key bool
}

// Event is a raw key transition from a keyboard source. Code is the rune
// the key types, or the negated linux key code for keys without one.
type Event struct {
	Pressed  bool
	Released bool
	Code     int
	// Quit is set for escape and the terminal interrupt keys.
	Quit bool
	Err  error
}
