package input

import (
	"github.com/eiannone/keyboard"
)

// Keyboard reads key presses from the controlling terminal. Terminals do
// not report releases, a Keymap synthesizes them.
type Keyboard struct {
	keys <-chan keyboard.KeyEvent
}

func OpenKeyboard() (*Keyboard, error) {
	keys, err := keyboard.GetKeys(32)
	if err != nil {
		return nil, err
	}
	return &Keyboard{keys: keys}, nil
}

// Forward sends presses to events until the terminal closes or done is
// closed.
func (k *Keyboard) Forward(events chan<- Event, done <-chan struct{}) {
	go func() {
		for {
			select {
			case <-done:
				return
			case ev, ok := <-k.keys:
				if !ok {
					return
				}
				events <- fromKeyboard(ev)
			}
		}
	}()
}

func fromKeyboard(ev keyboard.KeyEvent) Event {
	if ev.Err != nil {
		return Event{Err: ev.Err}
	}
	switch ev.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Event{Quit: true}
	case keyboard.KeySpace:
		return Event{Pressed: true, Code: ' '}
	case keyboard.KeyEnter:
		return Event{Pressed: true, Code: '\r'}
	}
	return Event{Pressed: true, Code: int(ev.Rune)}
}

func (k *Keyboard) Close() error {
	return keyboard.Close()
}
