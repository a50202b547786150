package judge

import (
	"math"

	"git.lost.host/meutraa/linesim/internal/game"
)

// Stats accumulates grade counts, combo and the timing error of hits.
type Stats struct {
	Counts   [game.Skipped + 1]int
	Combo    int
	MaxCombo int

	hits  int
	mean  float64
	sumSq float64
}

func (s *Stats) Add(r Result) {
	s.Counts[r.Grade]++
	if r.Grade == game.Skipped {
		return
	}
	if r.Grade.Hit() {
		s.Combo++
		if s.Combo > s.MaxCombo {
			s.MaxCombo = s.Combo
		}
	} else {
		s.Combo = 0
	}
	if r.Grade == game.Miss {
		return
	}
	s.hits++
	delta := r.Diff - s.mean
	s.mean += delta / float64(s.hits)
	s.sumSq += delta * (r.Diff - s.mean)
}

// Mean is the average timing error of non missed notes.
func (s *Stats) Mean() float64 {
	return s.mean
}

// Stdev is the sample standard deviation of the timing error.
func (s *Stats) Stdev() float64 {
	if s.hits < 2 {
		return 0
	}
	return math.Sqrt(s.sumSq / float64(s.hits-1))
}

func (s *Stats) Judged() int {
	total := 0
	for g, c := range s.Counts {
		if game.Grade(g) != game.Skipped {
			total += c
		}
	}
	return total
}

// Accuracy weighs Perfect fully and Good at 65%.
func (s *Stats) Accuracy() float64 {
	total := s.Judged()
	if total == 0 {
		return 1
	}
	return (float64(s.Counts[game.Perfect]) + 0.65*float64(s.Counts[game.Good])) / float64(total)
}
