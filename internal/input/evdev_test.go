package input

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/eiannone/keyboard"
)

var keyCodeTests = map[uint16]int{
	2:  '1',
	16: 'q',
	32: 'd',
	33: 'f',
	36: 'j',
	37: 'k',
	50: 'm',
	57: ' ',
	28: '\r',
	59: -59,
}

func TestKeyCode(t *testing.T) {
	for code, expected := range keyCodeTests {
		if got := keyCode(code); got != expected {
			t.Log("code", code, "got", got, "expected", expected)
			t.Fail()
		}
	}
}

func TestFromEvdev(t *testing.T) {
	if ev := fromEvdev(keyEvent{Type: evKey, Code: keyEsc, Value: 1}); !ev.Quit {
		t.Fatalf("escape did not quit: %+v", ev)
	}
	press := fromEvdev(keyEvent{Type: evKey, Code: 32, Value: 1})
	release := fromEvdev(keyEvent{Type: evKey, Code: 32, Value: 0})
	if !press.Pressed || press.Code != 'd' || !release.Released || release.Code != 'd' {
		t.Fatalf("unexpected events %+v %+v", press, release)
	}
}

func TestFromKeyboard(t *testing.T) {
	for ev, expected := range map[keyboard.KeyEvent]Event{
		{Key: keyboard.KeyEsc}:   {Quit: true},
		{Key: keyboard.KeyCtrlC}: {Quit: true},
		{Rune: 'j'}:              {Pressed: true, Code: 'j'},
		{Key: keyboard.KeySpace}: {Pressed: true, Code: ' '},
	} {
		if got := fromKeyboard(ev); got != expected {
			t.Log("key", ev, "got", got, "expected", expected)
			t.Fail()
		}
	}
}

func evdevStream(t *testing.T, evs ...keyEvent) *bytes.Reader {
	var buf bytes.Buffer
	for _, ev := range evs {
		if err := binary.Write(&buf, binary.LittleEndian, ev); err != nil {
			t.Fatal(err)
		}
	}
	return bytes.NewReader(buf.Bytes())
}

func TestReadEvdev(t *testing.T) {
	r := evdevStream(t,
		keyEvent{Type: evKey, Code: 33, Value: 1},
		keyEvent{Type: evKey, Code: 33, Value: 2},
		keyEvent{Type: 0, Code: 0, Value: 0},
		keyEvent{Type: evKey, Code: 33, Value: 0},
	)
	events := make(chan Event, 4)
	readEvdev(r, events, make(chan struct{}))
	close(events)

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	if len(got) != 3 || !got[0].Pressed || !got[1].Released || got[2].Err == nil {
		t.Fatalf("unexpected events %+v", got)
	}
}

func TestReadEvdevStopsOnDone(t *testing.T) {
	r := evdevStream(t,
		keyEvent{Type: evKey, Code: 33, Value: 1},
		keyEvent{Type: evKey, Code: 33, Value: 0},
	)
	events := make(chan Event)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		readEvdev(r, events, done)
		close(stopped)
	}()

	<-events
	close(done)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("reader still blocked after done")
	}
}
