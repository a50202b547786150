package input

import "testing"

func TestKeymapLanes(t *testing.T) {
	k := NewKeymap([]int{'a', 's', 'd'}, -0.5)
	for code, x := range map[int]float64{'a': -0.8, 's': 0, 'd': 0.8} {
		lane := k.Lanes[code]
		if lane[0] != x || lane[1] != -0.5 {
			t.Log("key", string(rune(code)), "lane", lane, "expected x", x)
			t.Fail()
		}
	}
}

func TestKeymapPressRepeatRelease(t *testing.T) {
	k := NewKeymap([]int{'a'}, 0)
	k.RepeatTimeout = 0

	touch, ok := k.Convert(Event{Pressed: true, Code: 'a'}, 1)
	if !ok || touch.Phase != Started {
		t.Fatalf("expected started touch, got %+v", touch)
	}
	repeat, ok := k.Convert(Event{Pressed: true, Code: 'a'}, 1.1)
	if !ok || repeat.Phase != Moved || repeat.ID != touch.ID {
		t.Fatalf("expected moved touch with same id, got %+v", repeat)
	}
	end, ok := k.Convert(Event{Released: true, Code: 'a'}, 1.2)
	if !ok || end.Phase != Ended || end.ID != touch.ID || end.Time != 1.2 {
		t.Fatalf("expected ended touch, got %+v", end)
	}
	if _, ok := k.Convert(Event{Released: true, Code: 'a'}, 1.3); ok {
		t.Fatal("released a key that was not held")
	}
	next, _ := k.Convert(Event{Pressed: true, Code: 'a'}, 2)
	if next.ID == touch.ID {
		t.Fatal("expected a new touch id for a new press")
	}
}

func TestKeymapIgnoresUnmapped(t *testing.T) {
	k := NewKeymap([]int{'a'}, 0)
	if _, ok := k.Convert(Event{Pressed: true, Code: 'z'}, 0); ok {
		t.Fatal("unmapped key produced a touch")
	}
	if _, ok := k.Convert(Event{Quit: true, Code: 'a'}, 0); ok {
		t.Fatal("quit produced a touch")
	}
}

func TestKeymapExpire(t *testing.T) {
	k := NewKeymap([]int{'a', 'b'}, 0)
	a, _ := k.Convert(Event{Pressed: true, Code: 'a'}, 1)
	k.Convert(Event{Pressed: true, Code: 'b'}, 1.5)
	if ended := k.Expire(1.5); len(ended) != 0 {
		t.Fatalf("expired too early: %+v", ended)
	}
	ended := k.Expire(1.7)
	if len(ended) != 1 || ended[0].ID != a.ID || ended[0].Phase != Ended {
		t.Fatalf("expected a to end, got %+v", ended)
	}
	if ended[0].Time != 1+DefaultRepeatTimeout {
		t.Fatalf("expected release at last repeat plus timeout, got %v", ended[0].Time)
	}
	if k.Held() != 1 {
		t.Fatalf("expected b still held, got %d", k.Held())
	}
}
