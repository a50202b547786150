// Package particle simulates capacity bounded particle bursts on the CPU.
package particle

import (
	"math/rand"

	"github.com/chewxy/math32"

	"git.lost.host/meutraa/linesim/internal/anim"
)

type ShapeKind uint8

const (
	ShapePoint ShapeKind = iota
	ShapeRect
	ShapeSphere
)

// Shape is the region new particles spawn in, around the emit origin.
type Shape struct {
	Kind          ShapeKind
	Width, Height float32
	Radius        float32
}

func (s Shape) point(rng *rand.Rand) (float32, float32) {
	switch s.Kind {
	case ShapeRect:
		return (rng.Float32() - 0.5) * s.Width, (rng.Float32() - 0.5) * s.Height
	case ShapeSphere:
		ro := math32.Sqrt(rng.Float32() * s.Radius * s.Radius)
		sin, cos := math32.Sincos(rng.Float32() * 2 * math32.Pi)
		return ro * cos, ro * sin
	}
	return 0, 0
}

// ColorCurve blends start to mid over the first half of a particle's life
// and mid to end over the second.
type ColorCurve struct {
	Start, Mid, End anim.Color
}

func (c ColorCurve) At(t float64) anim.Color {
	if t < 0.5 {
		return c.Start.Lerp(c.Mid, t*2)
	}
	return c.Mid.Lerp(c.End, (t-0.5)*2)
}

// Curve is a piecewise linear function of particle life, points ordered by x.
type Curve struct {
	Points [][2]float32
}

func (c *Curve) At(t float32) float32 {
	p := c.Points
	if len(p) == 0 {
		return 1
	}
	if t <= p[0][0] {
		return p[0][1]
	}
	for i := 1; i < len(p); i++ {
		if t <= p[i][0] {
			a, b := p[i-1], p[i]
			if b[0] == a[0] {
				return b[1]
			}
			return a[1] + (b[1]-a[1])*(t-a[0])/(b[0]-a[0])
		}
	}
	return p[len(p)-1][1]
}

type Config struct {
	MaxParticles int
	// OneShot stops emitting after a single cycle.
	OneShot bool
	// Emitting enables continuous emission of Amount particles per Lifetime.
	Emitting bool
	Amount   int
	// Explosiveness in [0, 1] bunches a cycle's particles at its start.
	Explosiveness float32

	Lifetime           float32
	LifetimeRandomness float32

	// Direction is a unit vector, rotated by up to half the spread either way.
	Direction          [2]float32
	DirectionSpread    float32
	Velocity           float32
	VelocityRandomness float32
	// LinearAccel accelerates particles along their direction of motion.
	LinearAccel float32
	Gravity     [2]float32

	Rotation           float32
	RotationRandomness float32

	Size           float32
	SizeRandomness float32
	SizeCurve      *Curve

	BaseColor anim.Color
	Colors    ColorCurve
	Shape     Shape
	Seed      int64
}

func DefaultConfig() Config {
	return Config{
		MaxParticles: 20000,
		Amount:       8,
		Lifetime:     1,
		Direction:    [2]float32{0, -1},
		Velocity:     50,
		Size:         10,
		BaseColor:    anim.White,
		Colors:       ColorCurve{anim.White, anim.White, anim.White},
		Seed:         1,
	}
}
