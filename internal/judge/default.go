package judge

import (
	"math"

	"git.lost.host/meutraa/linesim/internal/game"
	"git.lost.host/meutraa/linesim/internal/input"
)

type hold struct {
	ref  game.NoteRef
	diff float64
}

type DefaultJudge struct {
	Tiers Tiers
	// Reach limits how far along the line a touch may land from a note,
	// 0 disables the check.
	Reach float64
	// Autoplay judges every note Perfect at its time and ignores touches.
	Autoplay bool
	Stats    Stats

	// touch id to the hold it is keeping down
	holds map[int]hold
	// start offsets of holds in progress
	pending map[game.NoteRef]float64
	results []Result
}

func NewDefaultJudge(p Profile) *DefaultJudge {
	if len(p.Tiers) == 0 {
		p.Tiers = DefaultTiers
	}
	return &DefaultJudge{
		Tiers:   p.Tiers,
		Reach:   p.Reach,
		holds:   map[int]hold{},
		pending: map[game.NoteRef]float64{},
	}
}

func (j *DefaultJudge) Reset() {
	j.holds = map[int]hold{}
	j.pending = map[game.NoteRef]float64{}
}

func (j *DefaultJudge) Update(res *game.Resource, chart *game.Chart, touches []input.Touch) []Result {
	j.results = j.results[:0]
	if j.holds == nil {
		j.Reset()
	}
	if j.Autoplay {
		j.autoplay(res, chart)
	} else {
		for _, t := range touches {
			j.touch(res, chart, t)
		}
	}
	j.sweep(res, chart)
	return j.results
}

func (j *DefaultJudge) settle(res *game.Resource, chart *game.Chart, ref game.NoteRef, grade game.Grade, diff, t float64) {
	if !chart.Note(ref).Settle(grade) {
		return
	}
	delete(j.pending, ref)
	r := Result{Line: ref.Line, Note: ref.Note, Grade: grade, Diff: diff, Time: t}
	j.results = append(j.results, r)
	j.Stats.Add(r)
}

func (j *DefaultJudge) autoplay(res *game.Resource, chart *game.Chart) {
	for li, l := range chart.Lines {
		for ni, n := range l.Notes {
			if !n.Open() || n.Time > res.Time {
				continue
			}
			ref := game.NoteRef{Line: li, Note: ni}
			if _, ok := n.IsHold(); ok {
				n.StartHold(game.Perfect, res.Time)
				j.pending[ref] = 0
				continue
			}
			chart.EmitHit(res, ref, game.Perfect)
			j.settle(res, chart, ref, game.Perfect, 0, res.Time)
		}
	}
}

func (j *DefaultJudge) touch(res *game.Resource, chart *game.Chart, t input.Touch) {
	switch t.Phase {
	case input.Started:
		// keys cannot swipe, so a press that hits nothing else flicks
		if !j.press(res, chart, t) && t.Key {
			j.flick(res, chart, t)
		}
		j.drags(res, chart, t)
	case input.Moved, input.Stationary:
		j.drags(res, chart, t)
		if t.Phase == input.Moved {
			j.flick(res, chart, t)
		}
	case input.Ended, input.Cancelled:
		j.release(res, chart, t)
	}
}

// reachable reports the lateral distance to the note and whether it is
// within Reach.
func (j *DefaultJudge) reachable(res *game.Resource, chart *game.Chart, ref game.NoteRef, t input.Touch) (float64, bool) {
	d := chart.LateralDistance(res, ref, [2]float64{t.X, t.Y})
	return d, j.Reach <= 0 || d <= j.Reach
}

// press picks the earliest open click or hold in range, then the tightest
// tier, then the nearest.
func (j *DefaultJudge) press(res *game.Resource, chart *game.Chart, t input.Touch) bool {
	var (
		found    bool
		best     game.NoteRef
		bestTime float64
		bestTier int
		bestDist float64
	)
	for li, l := range chart.Lines {
		for ni, n := range l.Notes {
			if !n.Open() {
				continue
			}
			switch n.Kind.(type) {
			case game.Click, game.Hold:
			default:
				continue
			}
			tier, ok := j.Tiers.Match(t.Time - n.Time)
			if !ok {
				continue
			}
			ref := game.NoteRef{Line: li, Note: ni}
			dist, ok := j.reachable(res, chart, ref, t)
			if !ok {
				continue
			}
			if found {
				if n.Time > bestTime {
					continue
				}
				if n.Time == bestTime && (tier > bestTier || (tier == bestTier && dist >= bestDist)) {
					continue
				}
			}
			found, best, bestTime, bestTier, bestDist = true, ref, n.Time, tier, dist
		}
	}
	if !found {
		return false
	}

	n := chart.Note(best)
	grade := j.Tiers[bestTier].Grade
	diff := t.Time - n.Time
	if _, ok := n.IsHold(); ok {
		if grade == game.Bad {
			j.settle(res, chart, best, grade, diff, t.Time)
			return true
		}
		n.StartHold(grade, res.Time)
		j.holds[t.ID] = hold{ref: best, diff: diff}
		j.pending[best] = diff
		return true
	}
	switch grade {
	case game.Bad:
		chart.AddBadNote(res, best, res.Time)
	default:
		chart.EmitHit(res, best, grade)
	}
	j.settle(res, chart, best, grade, diff, t.Time)
	return true
}

// drags judges every open drag in range within the good window as perfect.
func (j *DefaultJudge) drags(res *game.Resource, chart *game.Chart, t input.Touch) {
	window := j.Tiers.Window(game.Good)
	for li, l := range chart.Lines {
		for ni, n := range l.Notes {
			if _, ok := n.Kind.(game.Drag); !ok || !n.Open() || math.Abs(t.Time-n.Time) > window {
				continue
			}
			ref := game.NoteRef{Line: li, Note: ni}
			if _, ok := j.reachable(res, chart, ref, t); !ok {
				continue
			}
			chart.EmitHit(res, ref, game.Perfect)
			j.settle(res, chart, ref, game.Perfect, 0, t.Time)
		}
	}
}

// flick judges the earliest open flick in range within the good window.
func (j *DefaultJudge) flick(res *game.Resource, chart *game.Chart, t input.Touch) {
	window := j.Tiers.Window(game.Good)
	var (
		found bool
		best  game.NoteRef
	)
	for li, l := range chart.Lines {
		for ni, n := range l.Notes {
			if _, ok := n.Kind.(game.Flick); !ok || !n.Open() || math.Abs(t.Time-n.Time) > window {
				continue
			}
			ref := game.NoteRef{Line: li, Note: ni}
			if _, ok := j.reachable(res, chart, ref, t); !ok {
				continue
			}
			if !found || n.Time < chart.Note(best).Time {
				found, best = true, ref
			}
		}
	}
	if found {
		chart.EmitHit(res, best, game.Perfect)
		j.settle(res, chart, best, game.Perfect, 0, t.Time)
	}
}

// release ends the hold bound to the touch. Letting go before the last
// bad window of the hold is a miss.
func (j *DefaultJudge) release(res *game.Resource, chart *game.Chart, t input.Touch) {
	h, ok := j.holds[t.ID]
	if !ok {
		return
	}
	delete(j.holds, t.ID)
	n := chart.Note(h.ref)
	status := n.Status()
	if status.State != game.Holding {
		return
	}
	if t.Time < n.EndTime()-j.Tiers.Widest() {
		j.settle(res, chart, h.ref, game.Miss, h.diff, t.Time)
		return
	}
	j.settle(res, chart, h.ref, status.Grade, h.diff, t.Time)
}

// sweep misses notes whose window has passed and completes holds that
// reached their end.
func (j *DefaultJudge) sweep(res *game.Resource, chart *game.Chart) {
	widest := j.Tiers.Widest()
	for li, l := range chart.Lines {
		for ni, n := range l.Notes {
			if n.Fake {
				continue
			}
			ref := game.NoteRef{Line: li, Note: ni}
			switch s := n.Status(); s.State {
			case game.NotJudged:
				if res.Time-n.Time > widest {
					j.settle(res, chart, ref, game.Miss, res.Time-n.Time, res.Time)
				}
			case game.Holding:
				if res.Time >= n.EndTime() {
					j.settle(res, chart, ref, s.Grade, j.pending[ref], res.Time)
				}
			}
		}
	}
	for id, h := range j.holds {
		if chart.Note(h.ref).Status().State == game.Judged {
			delete(j.holds, id)
		}
	}
}
