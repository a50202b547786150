package particle

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/viterin/vek/vek32"

	"git.lost.host/meutraa/linesim/internal/anim"
)

// Particle is a read only view of one live particle.
type Particle struct {
	X, Y     float32
	Rotation float32
	Size     float32
	// Progress is the fraction of the lifetime elapsed.
	Progress float32
	Color    anim.Color
}

// Emitter keeps its particles as parallel slices so integration runs as
// vector operations.
type Emitter struct {
	Config Config
	// Position is the origin of continuous emission.
	Position [2]float32

	x, y     []float32
	vx, vy   []float32
	age      []float32
	lifetime []float32
	size     []float32
	rotation []float32
	tint     []anim.Color
	tmp      []float32

	rng        *rand.Rand
	timePassed float32
	lastEmit   float32
	spawned    int
}

func NewEmitter(cfg Config) *Emitter {
	capacity := cfg.MaxParticles
	if capacity > 1024 {
		capacity = 1024
	}
	return &Emitter{
		Config:   cfg,
		x:        make([]float32, 0, capacity),
		y:        make([]float32, 0, capacity),
		vx:       make([]float32, 0, capacity),
		vy:       make([]float32, 0, capacity),
		age:      make([]float32, 0, capacity),
		lifetime: make([]float32, 0, capacity),
		size:     make([]float32, 0, capacity),
		rotation: make([]float32, 0, capacity),
		tint:     make([]anim.Color, 0, capacity),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Len is the number of live particles.
func (e *Emitter) Len() int {
	return len(e.x)
}

// Emit spawns up to n particles at origin, ignoring Emitting and Amount.
// Particles beyond MaxParticles are dropped. It returns how many spawned.
func (e *Emitter) Emit(origin [2]float32, n int) int {
	if free := e.Config.MaxParticles - e.Len(); n > free {
		n = free
	}
	for i := 0; i < n; i++ {
		e.spawn(origin)
	}
	if n < 0 {
		return 0
	}
	return n
}

func (e *Emitter) spawn(origin [2]float32) {
	c := &e.Config
	ox, oy := c.Shape.point(e.rng)

	angle := math32.Atan2(c.Direction[1], c.Direction[0]) + (e.rng.Float32()-0.5)*c.DirectionSpread
	sin, cos := math32.Sincos(angle)
	speed := c.Velocity - c.Velocity*e.rng.Float32()*c.VelocityRandomness

	e.x = append(e.x, origin[0]+ox)
	e.y = append(e.y, origin[1]+oy)
	e.vx = append(e.vx, cos*speed)
	e.vy = append(e.vy, sin*speed)
	e.age = append(e.age, 0)
	e.lifetime = append(e.lifetime, c.Lifetime-c.Lifetime*e.rng.Float32()*c.LifetimeRandomness)
	e.size = append(e.size, c.Size-c.Size*e.rng.Float32()*c.SizeRandomness)
	e.rotation = append(e.rotation, c.Rotation-c.Rotation*e.rng.Float32()*c.RotationRandomness)
	e.tint = append(e.tint, c.BaseColor)
}

// Update runs continuous emission, integrates motion and removes expired
// particles.
func (e *Emitter) Update(dt float32) {
	e.emitContinuous(dt)

	n := e.Len()
	if n == 0 {
		return
	}
	if cap(e.tmp) < n {
		e.tmp = make([]float32, n, cap(e.x))
	}
	tmp := e.tmp[:n]
	c := &e.Config

	if c.LinearAccel != 0 {
		for i := 0; i < n; i++ {
			l := math32.Hypot(e.vx[i], e.vy[i])
			if l == 0 {
				continue
			}
			k := c.LinearAccel * dt / l
			// never reverse direction, decelerated particles stop
			if -k >= 1 {
				e.vx[i], e.vy[i] = 0, 0
				continue
			}
			e.vx[i] += e.vx[i] * k
			e.vy[i] += e.vy[i] * k
		}
	}
	if c.Gravity[0] != 0 || c.Gravity[1] != 0 {
		vek32.AddNumber_Inplace(e.vx, c.Gravity[0]*dt)
		vek32.AddNumber_Inplace(e.vy, c.Gravity[1]*dt)
	}
	vek32.MulNumber_Into(tmp, e.vx, dt)
	vek32.Add_Inplace(e.x, tmp)
	vek32.MulNumber_Into(tmp, e.vy, dt)
	vek32.Add_Inplace(e.y, tmp)
	vek32.AddNumber_Inplace(e.age, dt)

	for i := n - 1; i >= 0; i-- {
		if e.age[i] >= e.lifetime[i] {
			e.remove(i)
		}
	}
}

func (e *Emitter) emitContinuous(dt float32) {
	c := &e.Config
	if !c.Emitting || c.Amount <= 0 {
		return
	}
	e.timePassed += dt
	gap := c.Lifetime / float32(c.Amount) * (1 - c.Explosiveness)
	count := c.Amount
	if gap >= 0.001 {
		count = int((e.timePassed - e.lastEmit) / gap)
	}
	for i := 0; i < count; i++ {
		e.lastEmit = e.timePassed
		if e.Len() >= c.Amount || e.Len() >= c.MaxParticles {
			break
		}
		if c.OneShot && e.spawned >= c.Amount {
			break
		}
		e.spawn(e.Position)
		e.spawned++
	}
	if c.OneShot && e.timePassed > c.Lifetime {
		e.timePassed, e.lastEmit, e.spawned = 0, 0, 0
		c.Emitting = false
	}
}

// remove swaps the last particle into slot i.
func (e *Emitter) remove(i int) {
	last := e.Len() - 1
	e.x[i], e.y[i] = e.x[last], e.y[last]
	e.vx[i], e.vy[i] = e.vx[last], e.vy[last]
	e.age[i], e.lifetime[i] = e.age[last], e.lifetime[last]
	e.size[i], e.rotation[i] = e.size[last], e.rotation[last]
	e.tint[i] = e.tint[last]

	e.x, e.y = e.x[:last], e.y[:last]
	e.vx, e.vy = e.vx[:last], e.vy[:last]
	e.age, e.lifetime = e.age[:last], e.lifetime[:last]
	e.size, e.rotation = e.size[:last], e.rotation[:last]
	e.tint = e.tint[:last]
}

// Clear removes every particle.
func (e *Emitter) Clear() {
	e.x, e.y = e.x[:0], e.y[:0]
	e.vx, e.vy = e.vx[:0], e.vy[:0]
	e.age, e.lifetime = e.age[:0], e.lifetime[:0]
	e.size, e.rotation = e.size[:0], e.rotation[:0]
	e.tint = e.tint[:0]
}

// Each calls fn for every live particle with its current colour and size.
func (e *Emitter) Each(fn func(p Particle)) {
	c := &e.Config
	for i := range e.x {
		t := e.age[i] / e.lifetime[i]
		size := e.size[i]
		if c.SizeCurve != nil {
			size *= c.SizeCurve.At(t)
		}
		fn(Particle{
			X:        e.x[i],
			Y:        e.y[i],
			Rotation: e.rotation[i],
			Size:     size,
			Progress: t,
			Color:    c.Colors.At(float64(t)).Mul(e.tint[i]),
		})
	}
}
