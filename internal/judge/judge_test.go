package judge

import (
	"testing"

	"git.lost.host/meutraa/linesim/internal/game"
	"git.lost.host/meutraa/linesim/internal/input"
)

var scenarioTiers = Tiers{
	{Grade: game.Perfect, Window: 0.08},
	{Grade: game.Good, Window: 0.20},
}

func chartWith(t *testing.T, notes ...*game.Note) *game.Chart {
	t.Helper()
	l := game.NewLine()
	l.Notes = notes
	bpm, err := game.NewBpmList([]game.BPMPoint{{Beat: 0, BPM: 120}})
	if err != nil {
		t.Fatal(err)
	}
	c, err := game.NewChart([]*game.Line{l}, bpm, game.ChartSettings{}, game.FormatRPE, 0)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func press(id int, at float64) input.Touch {
	return input.Touch{ID: id, Phase: input.Started, Time: at}
}

func tick(j Judge, c *game.Chart, at float64, touches ...input.Touch) []Result {
	res := game.NewResource(game.DefaultConfig())
	res.Time = at
	c.Update(res)
	return j.Update(res, c, touches)
}

var pressTests = map[float64]struct {
	match bool
	grade game.Grade
}{
	4.95: {true, game.Perfect},
	5.05: {true, game.Perfect},
	4.85: {true, game.Good},
	5.15: {true, game.Good},
	4.5:  {false, 0},
	4.7:  {false, 0},
}

func TestPressTiers(t *testing.T) {
	for at, expected := range pressTests {
		note := &game.Note{Kind: game.Click{}, Time: 5, Height: 5, Speed: 1, Above: true}
		c := chartWith(t, note)
		j := NewDefaultJudge(Profile{Tiers: scenarioTiers})
		results := tick(j, c, at, press(1, at))

		if !expected.match {
			if len(results) != 0 || note.Status().State != game.NotJudged {
				t.Log("input at", at, "results", results, "status", note.Status())
				t.Fail()
			}
			continue
		}
		if len(results) != 1 || results[0].Grade != expected.grade {
			t.Log("input at", at)
			t.Log("results ", results)
			t.Log("expected", expected.grade)
			t.Fail()
		}
	}
}

func TestEarliestNoteWins(t *testing.T) {
	early := &game.Note{Kind: game.Click{}, Time: 1.0, Speed: 1, Above: true}
	late := &game.Note{Kind: game.Click{}, Time: 1.1, Speed: 1, Above: true}
	c := chartWith(t, late, early)
	j := NewDefaultJudge(Profile{})
	results := tick(j, c, 1.09, press(1, 1.09))
	if len(results) != 1 || results[0].Grade != game.Good {
		t.Fatalf("unexpected results %v", results)
	}
	if early.Status().State != game.Judged || late.Status().State != game.NotJudged {
		t.Fatalf("expected the earlier note to be judged, early %v late %v", early.Status(), late.Status())
	}
}

func TestJudgedNoteIgnoresInput(t *testing.T) {
	note := &game.Note{Kind: game.Click{}, Time: 1, Speed: 1}
	c := chartWith(t, note)
	j := NewDefaultJudge(Profile{})
	tick(j, c, 1, press(1, 1))
	if results := tick(j, c, 1.05, press(2, 1.05)); len(results) != 0 {
		t.Fatalf("judged note matched again: %v", results)
	}
	if s := note.Status(); s.Grade != game.Perfect {
		t.Fatalf("status changed to %v", s)
	}
}

func TestFakeNotesNeverJudged(t *testing.T) {
	note := &game.Note{Kind: game.Click{}, Time: 1, Speed: 1, Fake: true}
	c := chartWith(t, note)
	j := NewDefaultJudge(Profile{})
	tick(j, c, 1, press(1, 1))
	tick(j, c, 5)
	if note.Status().State != game.NotJudged {
		t.Fatalf("fake note judged: %v", note.Status())
	}
}

func TestMissSweep(t *testing.T) {
	note := &game.Note{Kind: game.Click{}, Time: 1, Speed: 1}
	c := chartWith(t, note)
	j := NewDefaultJudge(Profile{})
	if results := tick(j, c, 1+game.LimitBad); len(results) != 0 {
		t.Fatalf("missed inside the window: %v", results)
	}
	results := tick(j, c, 1.3)
	if len(results) != 1 || results[0].Grade != game.Miss {
		t.Fatalf("expected a miss, got %v", results)
	}
	if j.Stats.Counts[game.Miss] != 1 || j.Stats.Combo != 0 {
		t.Fatalf("unexpected stats %+v", j.Stats)
	}
}

func TestHoldReleasedEarlyMisses(t *testing.T) {
	note := &game.Note{Kind: game.Hold{EndTime: 3}, Time: 1, Speed: 1}
	c := chartWith(t, note)
	j := NewDefaultJudge(Profile{})
	if results := tick(j, c, 1.02, press(7, 1.02)); len(results) != 0 {
		t.Fatalf("hold settled on press: %v", results)
	}
	if note.Status().State != game.Holding {
		t.Fatalf("expected holding, got %v", note.Status())
	}
	results := tick(j, c, 2, input.Touch{ID: 7, Phase: input.Ended, Time: 2})
	if len(results) != 1 || results[0].Grade != game.Miss {
		t.Fatalf("expected miss, got %v", results)
	}
}

func TestHoldReleasedNearEnd(t *testing.T) {
	note := &game.Note{Kind: game.Hold{EndTime: 3}, Time: 1, Speed: 1}
	c := chartWith(t, note)
	j := NewDefaultJudge(Profile{})
	tick(j, c, 0.9, press(7, 0.9))
	results := tick(j, c, 2.9, input.Touch{ID: 7, Phase: input.Ended, Time: 2.9})
	if len(results) != 1 || results[0].Grade != game.Good {
		t.Fatalf("expected good, got %v", results)
	}
	if d := results[0].Diff; d > -0.099 || d < -0.101 {
		t.Fatalf("expected the press offset, got %v", d)
	}
}

func TestHoldCompletesAtEnd(t *testing.T) {
	note := &game.Note{Kind: game.Hold{EndTime: 3}, Time: 1, Speed: 1}
	c := chartWith(t, note)
	j := NewDefaultJudge(Profile{})
	tick(j, c, 1, press(7, 1))
	if results := tick(j, c, 2.99); len(results) != 0 {
		t.Fatalf("hold ended early: %v", results)
	}
	results := tick(j, c, 3)
	if len(results) != 1 || results[0].Grade != game.Perfect {
		t.Fatalf("expected perfect, got %v", results)
	}
	// the touch is no longer bound
	if results := tick(j, c, 3.1, input.Touch{ID: 7, Phase: input.Ended, Time: 3.1}); len(results) != 0 {
		t.Fatalf("release after completion produced %v", results)
	}
}

func TestDragAndFlick(t *testing.T) {
	drag := &game.Note{Kind: game.Drag{}, Time: 1, Speed: 1}
	flick := &game.Note{Kind: game.Flick{}, Time: 1.1, Speed: 1}
	c := chartWith(t, drag, flick)
	j := NewDefaultJudge(Profile{})

	results := tick(j, c, 0.9, press(1, 0.9))
	if len(results) != 1 || results[0].Grade != game.Perfect || drag.Status().State != game.Judged {
		t.Fatalf("expected drag perfect, got %v", results)
	}
	if flick.Status().State != game.NotJudged {
		t.Fatal("flick judged without movement")
	}
	results = tick(j, c, 1.05, input.Touch{ID: 1, Phase: input.Moved, Time: 1.05})
	if len(results) != 1 || flick.Status().Grade != game.Perfect {
		t.Fatalf("expected flick perfect, got %v", results)
	}
}

func TestKeyPressFlicks(t *testing.T) {
	flick := &game.Note{Kind: game.Flick{}, Time: 1, Speed: 1}
	click := &game.Note{Kind: game.Click{}, Time: 2, Speed: 1}
	late := &game.Note{Kind: game.Flick{}, Time: 2, Speed: 1}
	c := chartWith(t, flick, click, late)
	j := NewDefaultJudge(Profile{})
	keys := input.NewKeymap([]int{'f', 'j'}, 0)
	keys.RepeatTimeout = 0

	var results []Result
	for _, step := range []struct {
		at float64
		ev input.Event
	}{
		{1, input.Event{Pressed: true, Code: 'f'}},
		{1.05, input.Event{Released: true, Code: 'f'}},
		// the click takes the first key, the flick needs a second
		{2, input.Event{Pressed: true, Code: 'f'}},
		{2.02, input.Event{Pressed: true, Code: 'j'}},
	} {
		touch, ok := keys.Convert(step.ev, step.at)
		if !ok {
			t.Fatalf("key %v not converted", step.ev)
		}
		results = append(results, tick(j, c, step.at, touch)...)
	}
	results = append(results, tick(j, c, 2.5)...)

	if len(results) != 3 {
		t.Fatalf("expected three results, got %v", results)
	}
	for _, n := range []*game.Note{flick, click, late} {
		if s := n.Status(); s.State != game.Judged || s.Grade != game.Perfect {
			t.Log("note at", n.Time, "is", s)
			t.Fail()
		}
	}
}

func TestFingerPressDoesNotFlick(t *testing.T) {
	flick := &game.Note{Kind: game.Flick{}, Time: 1, Speed: 1}
	c := chartWith(t, flick)
	j := NewDefaultJudge(Profile{})
	if results := tick(j, c, 1, press(1, 1)); len(results) != 0 {
		t.Fatalf("a finger press flicked: %v", results)
	}
}

func TestReach(t *testing.T) {
	note := &game.Note{Kind: game.Click{}, Time: 1, Speed: 1}
	c := chartWith(t, note)
	j := NewDefaultJudge(Profile{Reach: 0.2})
	far := input.Touch{ID: 1, Phase: input.Started, X: 0.5, Time: 1}
	if results := tick(j, c, 1, far); len(results) != 0 {
		t.Fatalf("touch out of reach matched: %v", results)
	}
	near := input.Touch{ID: 2, Phase: input.Started, X: 0.1, Time: 1}
	if results := tick(j, c, 1, near); len(results) != 1 {
		t.Fatal("expected touch in reach to match")
	}
}

func TestAutoplay(t *testing.T) {
	click := &game.Note{Kind: game.Click{}, Time: 1, Speed: 1}
	hold := &game.Note{Kind: game.Hold{EndTime: 2}, Time: 1.5, Speed: 1}
	c := chartWith(t, click, hold)
	j := NewDefaultJudge(Profile{})
	j.Autoplay = true

	var all []Result
	for i := 0; i <= 250; i++ {
		all = append(all, tick(j, c, float64(i)*0.01, press(1, 0))...)
	}
	if len(all) != 2 {
		t.Fatalf("expected two results, got %v", all)
	}
	for _, r := range all {
		if r.Grade != game.Perfect {
			t.Fatalf("expected perfect, got %v", r)
		}
	}
	if j.Stats.MaxCombo != 2 {
		t.Fatalf("expected combo 2, got %d", j.Stats.MaxCombo)
	}
}

func BenchmarkPress(b *testing.B) {
	l := game.NewLine()
	for i := 0; i < 2000; i++ {
		l.Notes = append(l.Notes, &game.Note{Kind: game.Click{}, Time: float64(i) * 0.1, Height: float64(i) * 0.1, Speed: 1, Above: true})
	}
	bpm, _ := game.NewBpmList([]game.BPMPoint{{Beat: 0, BPM: 120}})
	c, _ := game.NewChart([]*game.Line{l}, bpm, game.ChartSettings{}, game.FormatRPE, 0)
	res := game.NewResource(game.DefaultConfig())
	j := NewDefaultJudge(Profile{})
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		j.press(res, c, press(n, 1000))
	}
}
