package game

import "fmt"

type Grade uint8

const (
	Perfect Grade = iota
	Good
	Bad
	Miss
	// Skipped marks notes passed over by a seek.
	Skipped
)

var gradeNames = [...]string{"perfect", "good", "bad", "miss", "skipped"}

func (g Grade) String() string {
	if int(g) < len(gradeNames) {
		return gradeNames[g]
	}
	return fmt.Sprintf("grade(%d)", uint8(g))
}

// Hit reports whether the grade counts towards combo.
func (g Grade) Hit() bool {
	return g == Perfect || g == Good
}

type JudgeState uint8

const (
	NotJudged JudgeState = iota
	Holding
	Judged
)

// Default timing limits in seconds, used by the judge and by the fade out mod.
const (
	LimitPerfect = 0.08
	LimitGood    = 0.16
	LimitBad     = 0.22
)

type JudgeStatus struct {
	State JudgeState
	Grade Grade
	// NextParticle is the next hold particle instant while Holding.
	NextParticle float64
}

func (s JudgeStatus) String() string {
	switch s.State {
	case Holding:
		return "holding(" + s.Grade.String() + ")"
	case Judged:
		return "judged(" + s.Grade.String() + ")"
	}
	return "not judged"
}
