package render

import (
	"time"

	"git.lost.host/meutraa/linesim/internal/game"
	"git.lost.host/meutraa/linesim/internal/particle"
)

type Renderer interface {
	Init() error
	Deinit() error
	// AspectRatio is the width over height of the drawable area.
	AspectRatio() float64
	RenderLoop(framePeriod time.Duration, render func(now time.Time) bool)
	Draw(draws []game.Draw)
	Particles(fx *particle.HitEffect)
	Text(row, column int, message string)
	Flush() error
}
