package particle

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f64"

	"git.lost.host/meutraa/linesim/internal/anim"
)

// HitEffect is the judgement feedback: one sprite particle showing the hit
// animation plus four squares flying outwards.
type HitEffect struct {
	Sprite  *Emitter
	Squares *Emitter
	// HideParticles suppresses the squares.
	HideParticles bool
}

// NewHitEffect sizes the effect relative to the note width.
func NewHitEffect(scale float32) *HitEffect {
	sprite := DefaultConfig()
	sprite.Lifetime = 0.5
	sprite.Velocity = 0
	sprite.Size = scale * 2.2
	sprite.MaxParticles = 2000

	squares := DefaultConfig()
	squares.Lifetime = 0.5
	squares.DirectionSpread = 2 * math32.Pi
	squares.Velocity = scale * 3.5
	squares.VelocityRandomness = 0.3
	squares.LinearAccel = -scale * 6
	squares.Size = scale / 5
	squares.SizeCurve = &Curve{Points: [][2]float32{{0, 1}, {1, 0.4}}}
	squares.Colors = ColorCurve{anim.White, anim.White, anim.Transparent}
	squares.MaxParticles = 8000
	squares.Seed = 2

	return &HitEffect{
		Sprite:  NewEmitter(sprite),
		Squares: NewEmitter(squares),
	}
}

// EmitAt implements game.Emitter.
func (h *HitEffect) EmitAt(pos f64.Vec2, rotation float64, color anim.Color) {
	origin := [2]float32{float32(pos[0]), float32(pos[1])}
	h.Sprite.Config.Rotation = float32(rotation)
	h.Sprite.Config.BaseColor = color
	h.Sprite.Emit(origin, 1)
	if !h.HideParticles {
		h.Squares.Config.BaseColor = color
		h.Squares.Emit(origin, 4)
	}
}

func (h *HitEffect) Update(dt float32) {
	h.Sprite.Update(dt)
	h.Squares.Update(dt)
}

func (h *HitEffect) Len() int {
	return h.Sprite.Len() + h.Squares.Len()
}

func (h *HitEffect) Clear() {
	h.Sprite.Clear()
	h.Squares.Clear()
}
