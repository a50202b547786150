package game

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/image/math/f64"

	"git.lost.host/meutraa/linesim/internal/anim"
	"git.lost.host/meutraa/linesim/internal/vmath"
)

const NoParent = -1

// LineKind is one of NormalLine, TextureLine or TextLine.
type LineKind interface {
	lineKind() string
}

type NormalLine struct{}

type TextureLine struct {
	Texture Texture
}

type TextLine struct {
	Text anim.Anim[string]
}

func (NormalLine) lineKind() string    { return "" }
func (k TextureLine) lineKind() string { return " img:" + k.Texture.Name }
func (k *TextLine) lineKind() string   { return " text:" + k.Text.Now() }

// lineCache indexes the sorted notes: the not plain prefix, then one run
// per (side, speed), above runs first.
type lineCache struct {
	updateOrder   []int
	notPlainCount int
	above         []int
	below         []int
}

type Line struct {
	Object anim.Object
	Ctrl   anim.CtrlObject
	Kind   LineKind
	// Height is the scroll position of the line, notes at that height sit on it.
	Height  anim.Anim[float64]
	Incline anim.Anim[float64]
	Notes   []*Note
	Color   anim.Anim[anim.Color]
	// Parent is an index into the chart's lines, or NoParent.
	Parent           int
	RotateWithParent bool
	ZIndex           int
	ShowBelow        bool
	Anchor           [2]float64

	cache lineCache
}

func NewLine() *Line {
	return &Line{
		Kind:   NormalLine{},
		Parent: NoParent,
		Anchor: [2]float64{0.5, 0.5},
	}
}

func noteLess(a, b *Note) bool {
	if pa, pb := a.Plain(), b.Plain(); pa != pb {
		return !pa
	}
	if a.Above != b.Above {
		return a.Above
	}
	if a.Speed != b.Speed {
		return a.Speed < b.Speed
	}
	return (a.Height+a.Object.TranslationY.Now())*a.Speed < (b.Height+b.Object.TranslationY.Now())*b.Speed
}

// Reset sorts the notes and rebuilds the cache from scratch. Required after
// load and after any backwards or discontinuous jump in time.
func (l *Line) Reset() {
	sort.SliceStable(l.Notes, func(i, j int) bool { return noteLess(l.Notes[i], l.Notes[j]) })
	c := &l.cache
	c.updateOrder = c.updateOrder[:0]
	for i := range l.Notes {
		c.updateOrder = append(c.updateOrder, i)
	}
	c.above = c.above[:0]
	c.below = c.below[:0]

	notes := l.Notes
	i := 0
	for i < len(notes) && !notes[i].Plain() {
		i++
	}
	c.notPlainCount = i
	for i < len(notes) && notes[i].Above {
		c.above = append(c.above, i)
		speed := notes[i].Speed
		for i++; i < len(notes) && notes[i].Above && notes[i].Speed == speed; i++ {
		}
	}
	for i < len(notes) {
		c.below = append(c.below, i)
		speed := notes[i].Speed
		for i++; i < len(notes) && notes[i].Speed == speed; i++ {
		}
	}
}

// Active returns how many notes are still being updated.
func (l *Line) Active() int {
	return len(l.cache.updateOrder)
}

// Runs returns the current start of every above and below run.
func (l *Line) Runs() (above, below []int) {
	return l.cache.above, l.cache.below
}

// Update advances the line and its live notes. tr is the line's absolute
// transform and rot its absolute rotation in degrees.
func (l *Line) Update(res *Resource, tr f64.Aff3, rot float64, bpm *BpmList, ordinal int) {
	l.Height.SetTime(res.Time)
	l.Incline.SetTime(res.Time)
	lineHeight := l.Height.Now()

	kept := l.cache.updateOrder[:0]
	for _, id := range l.cache.updateOrder {
		n := l.Notes[id]
		n.Update(res, rot, tr, &l.Ctrl, lineHeight, bpm, ordinal)
		if !n.Dead() {
			kept = append(kept, id)
		}
	}
	l.cache.updateOrder = kept

	if k, ok := l.Kind.(*TextLine); ok {
		k.Text.SetTime(res.Time)
	}
	l.Color.SetTime(res.Time)

	l.cache.above = l.advanceRuns(l.cache.above, true)
	l.cache.below = l.advanceRuns(l.cache.below, false)
}

// advanceRuns moves each run start past its judged prefix, dropping runs
// that are fully judged.
func (l *Line) advanceRuns(runs []int, above bool) []int {
	kept := runs[:0]
	for _, i := range runs {
		alive := true
		for l.Notes[i].Status().State == Judged {
			next := i + 1
			if next < len(l.Notes) && (!above || l.Notes[next].Above) && l.Notes[next].Speed == l.Notes[i].Speed {
				i = next
				continue
			}
			alive = false
			break
		}
		if alive {
			kept = append(kept, i)
		}
	}
	return kept
}

// FetchPos resolves the absolute translation. Translation is always
// inherited, rotated by the parent's absolute rotation.
func (l *Line) FetchPos(lines []*Line, aspect float64) f64.Vec2 {
	t := l.Object.NowTranslation(aspect)
	if l.Parent == NoParent {
		return t
	}
	p := lines[l.Parent]
	return vmath.Add(p.FetchPos(lines, aspect), vmath.Rotate(p.FetchRotate(lines), t))
}

// FetchRotate resolves the absolute rotation in degrees.
func (l *Line) FetchRotate(lines []*Line) float64 {
	r := l.Object.Rotation.Now()
	if l.Parent != NoParent && l.RotateWithParent {
		r += lines[l.Parent].FetchRotate(lines)
	}
	return r
}

func (l *Line) NowTransform(lines []*Line, aspect float64) f64.Aff3 {
	p := l.FetchPos(lines, aspect)
	return vmath.AppendTranslation(vmath.Rotation(l.FetchRotate(lines)), p[0], p[1])
}

func (l *Line) Render(res *Resource, lines []*Line, bpm *BpmList, settings *ChartSettings, id int) {
	alpha := 1.0
	if v, ok := l.Object.Alpha.NowOpt(); ok {
		alpha = v
	}
	color, hasColor := l.Color.NowOpt()
	debug := res.Config.ChartDebugLine > 0

	res.WithModel(l.NowTransform(lines, res.AspectRatio), func(res *Resource) {
		res.WithModel(l.Object.NowScaleMatrix(), func(res *Resource) {
			l.renderBody(res, color, hasColor, alpha, debug)
		})

		cfg := RenderConfig{
			Settings:      settings,
			Ctrl:          &l.Ctrl,
			LineHeight:    l.Height.Now(),
			AppearBefore:  math.Inf(1),
			InvisibleTime: math.Inf(1),
			DrawBelow:     l.ShowBelow,
		}
		if v, ok := l.Incline.NowOpt(); ok {
			cfg.InclineSin = sinDeg(v)
		}
		if res.Config.FadeOut {
			cfg.InvisibleTime = LimitBad
		}
		debugAlpha := false
		if alpha < 0 {
			if !settings.PeAlphaExtension {
				if !debug {
					return
				}
				debugAlpha = true
			}
			switch w := int(math.Floor(-alpha)); {
			case w == 1:
				if !debug {
					return
				}
				debugAlpha = true
			case w == 2:
				cfg.DrawBelow = false
			case w >= 100 && w < 1000:
				cfg.AppearBefore = float64(w-100) / 10
			}
		}

		if res.Config.NoteScale > 0 && res.Config.RenderNote {
			l.renderNotes(res, &cfg, bpm, debugAlpha, id)
		}
		if debug {
			l.renderDebug(res, &cfg, alpha, id)
		}
	})
}

func (l *Line) renderBody(res *Resource, color anim.Color, hasColor bool, alpha float64, debug bool) {
	switch k := l.Kind.(type) {
	case NormalLine:
		if !res.Config.RenderLine {
			return
		}
		if !hasColor {
			color = res.JudgeLineColor
		}
		color.A = parseAlpha(color.A*math.Max(alpha, 0), res.Alpha, 0.15, debug)
		if color.A == 0 {
			return
		}
		res.drawLine(res.LineLength, 0.0075, color)
	case TextureLine:
		if !res.Config.RenderLineExtra || !k.Texture.Valid() {
			return
		}
		if !hasColor {
			color = anim.White
			// some images are pure white before play starts
			if res.Time <= 0 {
				color = anim.Black
			}
		}
		color.A = parseAlpha(math.Max(alpha, 0), res.Alpha, 0.15, debug)
		if color.A == 0 {
			return
		}
		w, h := k.Texture.Width, k.Texture.Height
		x, y := -w*l.Anchor[0], -h*(1-l.Anchor[1])
		res.drawTex(k.Texture, FullRect, -1, x, y, w, h, color)
	case *TextLine:
		if !res.Config.RenderLineExtra {
			return
		}
		if !hasColor {
			color = anim.White
		}
		color.A = parseAlpha(math.Max(alpha, 0), res.Alpha, 0.15, debug)
		if color.A == 0 {
			return
		}
		res.WithModel(vmath.Scaling(1, -1), func(res *Resource) {
			res.drawText(k.Text.Now(), 0, 0, 1, color)
		})
	}
}

// viewportHeights returns the scroll band visible on screen in the line's
// frame, scaled by the aspect ratio.
func (l *Line) viewportHeights(res *Resource) (above, below float64) {
	vw, vh := 1.2/res.Config.ChartRatio, 1/res.Config.ChartRatio
	above, below = math.Inf(-1), math.Inf(1)
	for _, p := range [4]f64.Vec2{{-vw, -vh}, {-vw, vh}, {vw, -vh}, {vw, vh}} {
		y := res.ScreenToWorld(p)[1]
		above = math.Max(above, y)
		below = math.Min(below, y)
	}
	return above * res.AspectRatio, below * res.AspectRatio
}

func (l *Line) renderNotes(res *Resource, cfg *RenderConfig, bpm *BpmList, debugAlpha bool, id int) {
	heightAbove, heightBelow := l.viewportHeights(res)
	agg := res.Config.Aggressive
	aggNotPlain := agg && (res.Format == FormatPGR || res.Format == FormatRPE)
	height := l.Height

	// Not plain notes use the line height at their own time.
	notPlain := func(above bool, lo, hi float64) {
		for _, n := range l.Notes[:l.cache.notPlainCount] {
			if n.Above != above {
				continue
			}
			height.SetTime(math.Min(n.Time, res.Time))
			nh := n.Height - height.Now() + n.Object.TranslationY.Now()
			if aggNotPlain && nh < lo/n.Speed {
				continue
			}
			if aggNotPlain && nh > hi/n.Speed {
				break
			}
			n.Render(res, cfg, bpm, debugAlpha, id)
		}
	}
	runs := func(starts []int, above bool, lo, hi float64) {
		for _, start := range starts {
			speed := l.Notes[start].Speed
			for _, n := range l.Notes[start:] {
				if (above && !n.Above) || n.Speed != speed {
					break
				}
				nh := n.Height - cfg.LineHeight + n.Object.TranslationY.Now()
				if agg && nh < lo/speed {
					continue
				}
				if agg && nh > hi/speed {
					break
				}
				n.Render(res, cfg, bpm, debugAlpha, id)
			}
		}
	}

	notPlain(true, heightBelow, heightAbove)
	runs(l.cache.above, true, heightBelow, heightAbove)
	res.WithModel(vmath.Scaling(1, -1), func(res *Resource) {
		notPlain(false, -heightAbove, -heightBelow)
		runs(l.cache.below, false, -heightAbove, -heightBelow)
	})
}

func (l *Line) renderDebug(res *Resource, cfg *RenderConfig, alpha float64, id int) {
	switch l.Kind.(type) {
	case NormalLine:
		if !res.Config.RenderLine {
			return
		}
	default:
		if !res.Config.RenderLineExtra {
			return
		}
	}
	parent := ""
	if l.Parent != NoParent {
		parent = fmt.Sprintf("(%d)", l.Parent)
	}
	z := ""
	if l.ZIndex != 0 {
		z = fmt.Sprintf(" z:%d", l.ZIndex)
	}
	// float32 precision of the scroll height, one pixel at 1080p
	ulp := 0.0
	if !math.IsNaN(cfg.LineHeight) && !math.IsInf(cfg.LineHeight, 0) {
		ulp = 1.1920929e-7 * math.Abs(cfg.LineHeight)
	}
	a := parseAlpha(alpha, res.Alpha, 0.15, true)
	color := anim.RGBA(1, 1, 1, a)
	warn := ""
	switch {
	case ulp > 0.018518519:
		color = anim.RGBA(1, 0, 0, a)
		warn = fmt.Sprintf("(Speed too high! ULP: %.4f)", ulp)
	case ulp > 0.0018518519:
		color = anim.RGBA(1, 1, 0, a)
		warn = fmt.Sprintf("(Speed too high! ULP: %.4f)", ulp)
	}
	size := res.Config.ChartDebugLine
	text := fmt.Sprintf("[%d]%s h:%.2f%s%s%s", id, parent, cfg.LineHeight, warn, z, l.Kind.lineKind())
	res.WithModel(vmath.Scaling(1, -1), func(res *Resource) {
		res.drawText(text, 0, -size*0.1, size, color)
	})
}
