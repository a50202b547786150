// Package judge matches touches against open notes and drives their
// judgement state.
package judge

import (
	"git.lost.host/meutraa/linesim/internal/game"
	"git.lost.host/meutraa/linesim/internal/input"
)

type Judge interface {
	// Update consumes the touches of one tick and returns every note that
	// reached a final grade.
	Update(res *game.Resource, chart *game.Chart, touches []input.Touch) []Result
	// Reset forgets bound holds, called after a seek.
	Reset()
}

type Result struct {
	Line  int
	Note  int
	Grade game.Grade
	// Diff is input time minus note time, in seconds
	Diff float64
	Time float64
}

func (r Result) Ref() game.NoteRef {
	return game.NoteRef{Line: r.Line, Note: r.Note}
}
