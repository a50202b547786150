package judge

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"git.lost.host/meutraa/linesim/internal/game"
)

var ErrProfile = errors.New("invalid judge profile")

// Tier is a symmetric timing window in seconds around a note's time.
type Tier struct {
	Grade  game.Grade
	Window float64
}

// Tiers are ordered tightest first.
type Tiers []Tier

var DefaultTiers = Tiers{
	{Grade: game.Perfect, Window: game.LimitPerfect},
	{Grade: game.Good, Window: game.LimitGood},
	{Grade: game.Bad, Window: game.LimitBad},
}

// Match returns the index of the tightest tier containing diff.
func (t Tiers) Match(diff float64) (int, bool) {
	d := math.Abs(diff)
	for i, tier := range t {
		if d <= tier.Window {
			return i, true
		}
	}
	return 0, false
}

func (t Tiers) Widest() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].Window
}

// Window returns the window of grade g, falling back to the widest.
func (t Tiers) Window(g game.Grade) float64 {
	for _, tier := range t {
		if tier.Grade == g {
			return tier.Window
		}
	}
	return t.Widest()
}

func (t Tiers) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("no tiers: %w", ErrProfile)
	}
	for i, tier := range t {
		if !(tier.Window > 0) {
			return fmt.Errorf("tier %d window %v: %w", i, tier.Window, ErrProfile)
		}
		if tier.Grade > game.Bad {
			return fmt.Errorf("tier %d grade %v: %w", i, tier.Grade, ErrProfile)
		}
		if i > 0 && !(tier.Window > t[i-1].Window) {
			return fmt.Errorf("tier %d is not wider than tier %d: %w", i, i-1, ErrProfile)
		}
	}
	return nil
}

// Profile is the judge configuration loaded from YAML:
//
//	reach: 0.3
//	tiers:
//	  - {grade: perfect, window: 0.08}
//	  - {grade: good, window: 0.16}
//	  - {grade: bad, window: 0.22}
type Profile struct {
	Tiers Tiers
	// Reach limits how far along the line a touch may land from a note,
	// 0 disables the check.
	Reach float64
}

type yamlProfile struct {
	Reach float64 `yaml:"reach"`
	Tiers []struct {
		Grade  string  `yaml:"grade"`
		Window float64 `yaml:"window"`
	} `yaml:"tiers"`
}

func ParseProfile(data []byte) (Profile, error) {
	var y yamlProfile
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Profile{}, fmt.Errorf("unable to decode judge profile: %w", err)
	}
	p := Profile{Reach: y.Reach}
	for _, t := range y.Tiers {
		g, err := parseGrade(t.Grade)
		if err != nil {
			return Profile{}, err
		}
		p.Tiers = append(p.Tiers, Tier{Grade: g, Window: t.Window})
	}
	if len(p.Tiers) == 0 {
		p.Tiers = DefaultTiers
	}
	if err := p.Tiers.Validate(); err != nil {
		return Profile{}, err
	}
	if p.Reach < 0 {
		return Profile{}, fmt.Errorf("negative reach %v: %w", p.Reach, ErrProfile)
	}
	return p, nil
}

func (p Profile) Marshal() ([]byte, error) {
	var y yamlProfile
	y.Reach = p.Reach
	for _, t := range p.Tiers {
		y.Tiers = append(y.Tiers, struct {
			Grade  string  `yaml:"grade"`
			Window float64 `yaml:"window"`
		}{t.Grade.String(), t.Window})
	}
	return yaml.Marshal(y)
}

func parseGrade(s string) (game.Grade, error) {
	for _, g := range []game.Grade{game.Perfect, game.Good, game.Bad} {
		if g.String() == s {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown grade %q: %w", s, ErrProfile)
}
