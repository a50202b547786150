package input

import (
	"encoding/binary"
	"io"
	"log"
	"os"
	"syscall"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey    = 0x01
	keyEsc   = 1
	keyEnter = 28
	keySpace = 57
)

// keyRows are the us layout rows starting at KEY_1, KEY_Q, KEY_A and KEY_Z.
var keyRows = []struct {
	first uint16
	runes string
}{
	{2, "1234567890-="},
	{16, "qwertyuiop[]"},
	{30, "asdfghjkl;'`"},
	{44, "zxcvbnm,./"},
}

// keyCode maps a linux key code to the rune it types on a us layout.
func keyCode(code uint16) int {
	switch code {
	case keyEnter:
		return '\r'
	case keySpace:
		return ' '
	}
	for _, row := range keyRows {
		runes := []rune(row.runes)
		if code >= row.first && int(code-row.first) < len(runes) {
			return int(runes[code-row.first])
		}
	}
	return -int(code)
}

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// ReadEvdev streams key transitions from a /dev/input/event* device until
// the device fails or done closes. Autorepeat (value 2) is dropped.
func ReadEvdev(device string, events chan<- Event, done <-chan struct{}) error {
	file, err := os.Open(device)
	if err != nil {
		return err
	}
	go func() {
		defer file.Close()
		readEvdev(file, events, done)
	}()
	return nil
}

func readEvdev(r io.Reader, events chan<- Event, done <-chan struct{}) {
	var ev keyEvent
	for {
		if err := binary.Read(r, binary.LittleEndian, &ev); nil != err {
			log.Println(err, "unable to read keyboard input")
			select {
			case events <- Event{Err: err}:
			case <-done:
			}
			return
		}
		if ev.Type != evKey || ev.Value > 1 {
			continue
		}
		select {
		case events <- fromEvdev(ev):
		case <-done:
			return
		}
	}
}

func fromEvdev(ev keyEvent) Event {
	if ev.Code == keyEsc {
		return Event{Quit: true}
	}
	return Event{
		Pressed:  ev.Value == 1,
		Released: ev.Value == 0,
		Code:     keyCode(ev.Code),
	}
}
