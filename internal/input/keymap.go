package input

// DefaultRepeatTimeout is how long a terminal key may go without a repeat
// before it counts as released.
const DefaultRepeatTimeout = 0.6

type heldKey struct {
	id   int
	last float64
}

// Keymap converts key events into touches. Each key is a lane at a fixed
// screen position.
type Keymap struct {
	Lanes map[int][2]float64
	// RepeatTimeout releases keys that stop repeating, 0 disables it for
	// sources that report releases.
	RepeatTimeout float64

	held   map[int]*heldKey
	nextID int
}

// NewKeymap spreads the keys evenly across the screen width at height y.
func NewKeymap(codes []int, y float64) *Keymap {
	k := &Keymap{
		Lanes:         map[int][2]float64{},
		RepeatTimeout: DefaultRepeatTimeout,
		held:          map[int]*heldKey{},
	}
	for i, c := range codes {
		x := 0.0
		if len(codes) > 1 {
			x = -0.8 + 1.6*float64(i)/float64(len(codes)-1)
		}
		k.Lanes[c] = [2]float64{x, y}
	}
	return k
}

// Convert maps an event at chart time t to a touch. Unmapped keys and
// releases of keys that are not held yield false.
func (k *Keymap) Convert(ev Event, t float64) (Touch, bool) {
	lane, ok := k.Lanes[ev.Code]
	if !ok || ev.Err != nil || ev.Quit {
		return Touch{}, false
	}
	if k.held == nil {
		k.held = map[int]*heldKey{}
	}
	h, down := k.held[ev.Code]
	switch {
	case ev.Pressed && down:
		h.last = t
		return Touch{ID: h.id, Phase: Moved, X: lane[0], Y: lane[1], Time: t, Key: true}, true
	case ev.Pressed:
		k.nextID++
		k.held[ev.Code] = &heldKey{id: k.nextID, last: t}
		return Touch{ID: k.nextID, Phase: Started, X: lane[0], Y: lane[1], Time: t, Key: true}, true
	case ev.Released && down:
		delete(k.held, ev.Code)
		return Touch{ID: h.id, Phase: Ended, X: lane[0], Y: lane[1], Time: t, Key: true}, true
	}
	return Touch{}, false
}

// Expire ends touches whose key has not repeated within RepeatTimeout.
func (k *Keymap) Expire(t float64) []Touch {
	if k.RepeatTimeout <= 0 {
		return nil
	}
	var ended []Touch
	for code, h := range k.held {
		if t-h.last < k.RepeatTimeout {
			continue
		}
		lane := k.Lanes[code]
		ended = append(ended, Touch{ID: h.id, Phase: Ended, X: lane[0], Y: lane[1], Time: h.last + k.RepeatTimeout, Key: true})
		delete(k.held, code)
	}
	return ended
}

// Held reports how many keys are currently down.
func (k *Keymap) Held() int {
	return len(k.held)
}
