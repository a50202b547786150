package judge

import (
	"errors"
	"math"
	"testing"

	"git.lost.host/meutraa/linesim/internal/game"
)

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(`
reach: 0.25
tiers:
  - {grade: perfect, window: 0.05}
  - {grade: good, window: 0.1}
  - {grade: bad, window: 0.18}
`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Reach != 0.25 || len(p.Tiers) != 3 || p.Tiers[2] != (Tier{game.Bad, 0.18}) {
		t.Fatalf("unexpected profile %+v", p)
	}
	if p.Tiers.Window(game.Good) != 0.1 || p.Tiers.Widest() != 0.18 {
		t.Fatal("unexpected windows")
	}

	data, err := p.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseProfile(data)
	if err != nil || len(back.Tiers) != 3 || back.Reach != p.Reach {
		t.Fatalf("unexpected reparse %+v %v", back, err)
	}
}

func TestEmptyProfileUsesDefaults(t *testing.T) {
	p, err := ParseProfile([]byte("reach: 0"))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Tiers) != len(DefaultTiers) || p.Tiers[0].Window != game.LimitPerfect {
		t.Fatalf("unexpected tiers %+v", p.Tiers)
	}
}

var badProfiles = []string{
	"tiers: [{grade: great, window: 0.1}]",
	"tiers: [{grade: perfect, window: 0}]",
	"tiers: [{grade: perfect, window: 0.1}, {grade: good, window: 0.1}]",
	"reach: -1",
	"tiers: [{grade: miss, window: 0.3}]",
}

func TestInvalidProfiles(t *testing.T) {
	for _, data := range badProfiles {
		if _, err := ParseProfile([]byte(data)); !errors.Is(err, ErrProfile) {
			t.Log("profile", data, "error", err)
			t.Fail()
		}
	}
}

func TestTierMatch(t *testing.T) {
	for diff, expected := range map[float64]int{0: 0, -0.08: 0, 0.1: 1, -0.2: 2, 0.22: 2} {
		if i, ok := DefaultTiers.Match(diff); !ok || i != expected {
			t.Log("diff", diff, "tier", i, ok, "expected", expected)
			t.Fail()
		}
	}
	if _, ok := DefaultTiers.Match(0.23); ok {
		t.Fatal("matched outside the widest window")
	}
}

func TestStats(t *testing.T) {
	var s Stats
	for _, r := range []Result{
		{Grade: game.Perfect, Diff: 0.01},
		{Grade: game.Good, Diff: -0.1},
		{Grade: game.Miss, Diff: 0.5},
		{Grade: game.Perfect, Diff: 0.03},
	} {
		s.Add(r)
	}
	if s.Combo != 1 || s.MaxCombo != 2 || s.Judged() != 4 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if math.Abs(s.Mean()-(-0.02)) > 1e-12 {
		t.Fatalf("unexpected mean %v", s.Mean())
	}
	// sample stdev of 0.01, -0.1, 0.03
	if math.Abs(s.Stdev()-0.07) > 1e-12 {
		t.Fatalf("unexpected stdev %v", s.Stdev())
	}
}
