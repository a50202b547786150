package game

import (
	"math"

	"golang.org/x/image/math/f64"

	"git.lost.host/meutraa/linesim/internal/anim"
	"git.lost.host/meutraa/linesim/internal/vmath"
)

const (
	RPEHeight   = 900.0
	HeightRatio = 0.83175
	FadeoutTime = 0.16
	BadTime     = 0.5

	DefaultNoteWidth  = 0.12
	DefaultLineLength = 6.0
)

// Emitter receives particle requests in screen space.
type Emitter interface {
	EmitAt(pos f64.Vec2, rotation float64, color anim.Color)
}

// Resource is the per session tick context. Only the tick owner mutates it.
type Resource struct {
	Time        float64
	AspectRatio float64
	Alpha       float64
	Config      Config
	Format      ChartFormat
	Settings    ChartSettings

	NoteWidth      float64
	LineLength     float64
	Style          NoteStyle
	StyleMH        NoteStyle
	FxPerfect      anim.Color
	FxGood         anim.Color
	JudgeLineColor anim.Color

	Emitter Emitter
	Draws   []Draw

	model  f64.Aff3
	models []f64.Aff3
}

func NewResource(cfg Config) *Resource {
	return &Resource{
		AspectRatio:    16.0 / 9,
		Alpha:          1,
		Config:         cfg,
		NoteWidth:      DefaultNoteWidth * cfg.NoteScale,
		LineLength:     DefaultLineLength,
		FxPerfect:      anim.FromARGB(0xe1ffec9f),
		FxGood:         anim.FromARGB(0xebb4e1ff),
		JudgeLineColor: anim.FromARGB(0xffffffff),
		model:          vmath.Identity(),
	}
}

func (r *Resource) Model() f64.Aff3 {
	return r.model
}

// WithModel runs fn with m applied before the current model.
func (r *Resource) WithModel(m f64.Aff3, fn func(r *Resource)) {
	r.models = append(r.models, r.model)
	r.model = vmath.Mul(r.model, m)
	fn(r)
	r.model = r.models[len(r.models)-1]
	r.models = r.models[:len(r.models)-1]
}

func (r *Resource) WorldToScreen(p f64.Vec2) f64.Vec2 {
	return vmath.Apply(r.model, p)
}

func (r *Resource) ScreenToWorld(p f64.Vec2) f64.Vec2 {
	inv, ok := vmath.Invert(r.model)
	if !ok {
		return p
	}
	return vmath.Apply(inv, p)
}

// EmitAtOrigin requests particles where the current model maps the origin.
func (r *Resource) EmitAtOrigin(rotation float64, color anim.Color) {
	if r.Emitter == nil {
		return
	}
	r.Emitter.EmitAt(vmath.Origin(r.model), rotation, color)
}

// ResetDraws empties the draw list, keeping its storage.
func (r *Resource) ResetDraws() {
	r.Draws = r.Draws[:0]
}

func (r *Resource) quad(x, y, w, h float64) [4]f64.Vec2 {
	return [4]f64.Vec2{
		r.WorldToScreen(f64.Vec2{x, y}),
		r.WorldToScreen(f64.Vec2{x + w, y}),
		r.WorldToScreen(f64.Vec2{x + w, y + h}),
		r.WorldToScreen(f64.Vec2{x, y + h}),
	}
}

func (r *Resource) offscreen(q [4]f64.Vec2) bool {
	lim := 1 / r.Config.ChartRatio
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range q {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	return minX > lim || maxX < -lim || minY > lim || maxY < -lim
}

// drawTex pushes a textured quad. Missing textures and quads fully outside
// the viewport are skipped.
func (r *Resource) drawTex(tex Texture, src Rect, order int, x, y, w, h float64, c anim.Color) {
	if h < 0 || !tex.Valid() {
		return
	}
	q := r.quad(x, y, w, h)
	if r.offscreen(q) {
		return
	}
	r.Draws = append(r.Draws, Draw{
		Kind:    DrawSprite,
		Texture: tex.Name,
		Source:  src,
		Order:   order,
		Quad:    q,
		Color:   c,
	})
}

func (r *Resource) drawCenter(tex Texture, order int, scale float64, c anim.Color) {
	if !tex.Valid() {
		return
	}
	hx, hy := scale, tex.Height*scale/tex.Width
	r.drawTex(tex, FullRect, order, -hx, -hy, hx*2, hy*2, c)
}

func (r *Resource) drawLine(length, width float64, c anim.Color) {
	r.Draws = append(r.Draws, Draw{
		Kind:  DrawLine,
		Order: -1,
		Quad:  r.quad(-length, -width/2, length*2, width),
		Color: c,
	})
}

func (r *Resource) drawText(text string, x, y, size float64, c anim.Color) {
	p := r.WorldToScreen(f64.Vec2{x, y})
	r.Draws = append(r.Draws, Draw{
		Kind:  DrawText,
		Order: math.MaxInt8,
		Quad:  [4]f64.Vec2{p, p, p, p},
		Color: c,
		Text:  text,
		Size:  size,
	})
}

// parseAlpha scales a by mul, keeping hidden objects faintly visible while
// debugging.
func parseAlpha(a, mul, floor float64, debug bool) float64 {
	if debug && a < floor {
		a = floor
	}
	return a * mul
}

func sinDeg(deg float64) float64 {
	return math.Sin(deg * math.Pi / 180)
}
