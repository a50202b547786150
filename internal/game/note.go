package game

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"

	"git.lost.host/meutraa/linesim/internal/anim"
	"git.lost.host/meutraa/linesim/internal/vmath"
)

// NoteKind is one of Click, Hold, Flick or Drag.
type NoteKind interface {
	// order is the draw order within a batch.
	order() int
}

type Click struct{}

type Hold struct {
	EndTime   float64
	EndHeight float64
	// EndSpeed is the scroll speed of the tail when HasEndSpeed is set,
	// otherwise the tail scrolls with the line.
	EndSpeed    float64
	HasEndSpeed bool
}

type Flick struct{}

type Drag struct{}

func (Hold) order() int  { return 0 }
func (Drag) order() int  { return 1 }
func (Click) order() int { return 2 }
func (Flick) order() int { return 3 }

func KindName(k NoteKind) string {
	switch k.(type) {
	case Click:
		return "click"
	case Hold:
		return "hold"
	case Flick:
		return "flick"
	case Drag:
		return "drag"
	}
	return fmt.Sprintf("%T", k)
}

type Note struct {
	Object anim.Object
	Kind   NoteKind
	// Time the note should be hit, in seconds
	Time float64
	// Height along the line's scroll axis at Time
	Height float64
	Speed  float64

	Above        bool
	MultipleHint bool
	// Fake notes are drawn but never judged.
	Fake bool

	judge JudgeStatus
}

func (n *Note) Status() JudgeStatus {
	return n.judge
}

func (n *Note) IsHold() (Hold, bool) {
	h, ok := n.Kind.(Hold)
	return h, ok
}

// EndTime is the hold end, or Time for every other kind.
func (n *Note) EndTime() float64 {
	if h, ok := n.IsHold(); ok {
		return h.EndTime
	}
	return n.Time
}

// Plain notes have no animation beyond scrolling and take the cached
// render path.
func (n *Note) Plain() bool {
	_, hold := n.IsHold()
	return !n.Fake && !hold && n.Object.TranslationY.Len() <= 1
}

// Open reports whether the note can still be matched by input.
func (n *Note) Open() bool {
	return !n.Fake && n.judge.State == NotJudged
}

// StartHold moves an unjudged hold to Holding. The first particle fires on
// the next update.
func (n *Note) StartHold(grade Grade, t float64) bool {
	if n.judge.State != NotJudged {
		return false
	}
	if _, ok := n.IsHold(); !ok {
		return false
	}
	n.judge = JudgeStatus{State: Holding, Grade: grade, NextParticle: t}
	return true
}

// Settle judges the note. A judged note never changes again outside of a
// seek.
func (n *Note) Settle(grade Grade) bool {
	if n.judge.State == Judged {
		return false
	}
	n.judge = JudgeStatus{State: Judged, Grade: grade}
	return true
}

// resetJudge rebuilds the status for a seek to t.
func (n *Note) resetJudge(t float64) {
	if n.EndTime() < t {
		n.judge = JudgeStatus{State: Judged, Grade: Skipped}
		return
	}
	n.judge = JudgeStatus{}
}

// Dead notes need no further simulation. Fake notes die once their time
// has passed since they are never judged.
func (n *Note) Dead() bool {
	if n.Fake {
		return n.Object.Time() >= n.EndTime() && n.Object.Dead()
	}
	if n.judge.State != Judged {
		return false
	}
	if h, ok := n.IsHold(); ok && n.Object.Time() < h.EndTime {
		return false
	}
	return n.Object.Dead()
}

func (n *Note) rotation() float64 {
	if n.Above {
		return 0
	}
	return 180
}

func (n *Note) initCtrl(ctrl *anim.CtrlObject, lineHeight float64) {
	h := n.Height - lineHeight
	if n.Speed != 0 {
		h += n.Object.TranslationY.Now() / n.Speed
	}
	ctrl.SetHeight(h * RPEHeight / 2)
}

// Update advances the note's curves and emits hold particles on beat.
func (n *Note) Update(res *Resource, parentRot float64, parentTr f64.Aff3, ctrl *anim.CtrlObject, lineHeight float64, bpm *BpmList, ordinal int) {
	n.Object.SetTime(res.Time)
	if n.judge.State != Holding || res.Time < n.judge.NextParticle {
		return
	}
	var b float64
	if res.Format == FormatPGR {
		b = bpm.BPMAtOrdinal(ordinal)
	} else {
		b = bpm.NowBPM(n.Time)
	}
	n.judge.NextParticle = res.Time + 30/b/res.Config.Speed

	color := res.FxGood
	if n.judge.Grade == Perfect {
		color = res.FxPerfect
	}
	n.initCtrl(ctrl, lineHeight)
	res.WithModel(vmath.Mul(parentTr, n.NowTransform(res, ctrl, 0, 0, false, false)), func(res *Resource) {
		res.EmitAtOrigin(parentRot+n.rotation(), color)
	})
}

// NowTransform composes rotate, then scale, then translate. base is the
// scroll offset from the line and inclineSin the sine of the line's tilt.
func (n *Note) NowTransform(res *Resource, ctrl *anim.CtrlObject, base, inclineSin float64, canScaleX, canScaleY bool) f64.Aff3 {
	incline := 1 - inclineSin*(base*res.AspectRatio+n.Object.TranslationY.Now())*RPEHeight/2/360
	tr := n.Object.NowTranslation(res.AspectRatio)
	tr[0] *= incline * ctrl.PosNow()
	tr[1] += base

	sx, sy := n.Object.NowScale()
	if canScaleX {
		sx *= ctrl.SizeNow()
	} else {
		sx = 1
	}
	if res.Settings.NoteUniformScale && canScaleY {
		sy *= ctrl.SizeNow()
	} else {
		sy = 1
	}
	m := vmath.AppendScaling(n.Object.NowRotation(), sx, sy)
	return vmath.AppendTranslation(m, tr[0], tr[1])
}

// RenderConfig is the line state shared by every note render of a frame.
type RenderConfig struct {
	Settings      *ChartSettings
	Ctrl          *anim.CtrlObject
	LineHeight    float64
	AppearBefore  float64
	InvisibleTime float64
	DrawBelow     bool
	InclineSin    float64
}

func (n *Note) Render(res *Resource, cfg *RenderConfig, bpm *BpmList, debugAlpha bool, lineID int) {
	hold, isHold := n.IsHold()
	if n.judge.State == Judged && !isHold {
		return
	}
	if !math.IsInf(cfg.AppearBefore, 1) {
		beat := bpm.Beat(n.Time)
		if bpm.Time(beat-cfg.AppearBefore) > res.Time {
			return
		}
	}

	ctrl := cfg.Ctrl
	n.initCtrl(ctrl, cfg.LineHeight)
	debug := res.Config.ChartDebugNote > 0
	color := n.Object.NowColor()
	color.A = parseAlpha(color.A, 1, 0.2, debug)

	if !math.IsInf(cfg.InvisibleTime, 1) && n.Time-cfg.InvisibleTime < res.Time {
		if !debug {
			return
		}
		color.A *= 0.2
	}

	spd := n.Speed * ctrl.YNow()
	lineHeight := cfg.LineHeight / res.AspectRatio * spd
	height := n.Height / res.AspectRatio * spd
	base := height - lineHeight
	ty := n.Object.TranslationY.Now()

	if res.Config.Aggressive && res.Format == FormatPEC && isHold {
		h := height
		if n.Time <= res.Time {
			h = lineHeight
		}
		if h+ty-lineHeight-lineHeight > 2/res.Config.ChartRatio {
			return
		}
	}

	coverBase := height + ty - lineHeight
	if cfg.Settings.HoldPartialCover && isHold {
		coverBase = hold.EndHeight/res.AspectRatio + ty - lineHeight
	}

	if res.Config.AlphaTint {
		if color.A <= 0.5 {
			color.R *= 0.6
			color.G *= 0.8
		} else if color.A < 1 {
			color.G *= 0.7
			color.B *= 0.9
		}
		color.A = res.Alpha
	} else {
		color.A *= parseAlpha(ctrl.AlphaNow(), res.Alpha, 0.2, debug)
	}

	if !cfg.DrawBelow && ((res.Time-FadeoutTime >= n.Time && !isHold) || (n.Time > res.Time && coverBase <= -0.001)) {
		if !debug {
			return
		}
		color.A *= 0.2
	}
	if debugAlpha {
		color.A *= 0.4
	}
	if fade := res.Config.Fade; fade > 0 {
		over := fade * 0.8
		if base > fade {
			return
		} else if base > over {
			color.A *= (fade - base) / (fade - over)
		}
	} else if fade < 0 {
		fade = -fade
		over := fade * 0.8
		if base < over {
			return
		} else if base < fade {
			color.A *= (base - over) / (fade - over)
		}
	}

	style := &res.Style
	scale := res.NoteWidth
	if res.Config.RenderDoubleHint && n.MultipleHint {
		style = &res.StyleMH
		if res.Style.Click.Width > 0 {
			scale *= style.Click.Width / res.Style.Click.Width
		}
	}
	order := n.Kind.order()

	sprite := func(tex Texture) {
		if n.Fake && res.Time >= n.Time {
			return
		}
		c := color
		if !cfg.DrawBelow {
			c.A *= math.Min(n.Time-res.Time, 0)/FadeoutTime + 1
		}
		res.WithModel(n.NowTransform(res, ctrl, base, cfg.InclineSin, true, true), func(res *Resource) {
			res.drawCenter(tex, order, scale, c)
		})
	}

	switch k := n.Kind.(type) {
	case Click:
		sprite(style.Click)
	case Flick:
		sprite(style.Flick)
	case Drag:
		sprite(style.Drag)
	case Hold:
		if n.Fake && res.Time >= k.EndTime {
			return
		}
		res.WithModel(n.NowTransform(res, ctrl, 0, 0, true, false), func(res *Resource) {
			n.renderHold(res, k, ctrl, style, order, scale, spd, height, lineHeight, color)
		})
	}

	if debug {
		n.renderDebug(res, ctrl, cfg, height, lineHeight, base, color.A, lineID)
	}
}

func (n *Note) renderHold(res *Resource, k Hold, ctrl *anim.CtrlObject, style *NoteStyle, order int, scale, spd, height, lineHeight float64, color anim.Color) {
	if n.judge.State == Judged {
		color.A *= 0.5
	}
	if res.Time >= k.EndTime {
		return
	}
	endHeight := k.EndHeight / res.AspectRatio * spd
	t := math.Max(res.Time, n.Time)
	h := height
	if n.Time <= res.Time {
		h = lineHeight
	}
	bottom := h - lineHeight
	top := endHeight - lineHeight
	if k.HasEndSpeed {
		endSpd := k.EndSpeed * ctrl.YNow()
		if endSpd == 0 {
			if res.Config.ChartDebugNote <= 0 {
				return
			}
			color.A *= 0.2
		}
		holdLineHeight := (t - n.Time) * endSpd / res.AspectRatio / HeightRatio
		top = bottom + endHeight - height - holdLineHeight
	}

	body, src := style.Hold, style.BodyRect
	if style.HoldRepeat {
		body = style.HoldBody
		if body.Valid() {
			src = Rect{0, 0, 1, (top - bottom) / scale / 2 * body.Width / body.Height}
		}
	}
	res.drawTex(body, src, order, -scale, bottom, scale*2, top-bottom, color)

	if !style.Hold.Valid() {
		return
	}
	if r := style.HeadRect; (res.Time < n.Time || style.HoldKeepHead) && r.W > 0 {
		hy := r.H / r.W * scale * style.holdRatio()
		off := hy * 2
		if style.HoldCompact {
			off = hy
		}
		res.drawTex(style.Hold, r, order, -scale, bottom-off, scale*2, hy*2, color)
	}
	if r := style.TailRect; r.W > 0 {
		hy := r.H / r.W * scale * style.holdRatio()
		off := 0.0
		if style.HoldCompact {
			off = hy
		}
		res.drawTex(style.Hold, r, order, -scale, top-off, scale*2, hy*2, color)
	}
}

func (n *Note) renderDebug(res *Resource, ctrl *anim.CtrlObject, cfg *RenderConfig, height, lineHeight, base, alpha float64, lineID int) {
	if base > 2/res.Config.ChartRatio {
		return
	}
	size := res.Config.ChartDebugNote
	side := ""
	if !n.Above {
		side = " below"
	}
	fake := ""
	if n.Fake {
		fake = " fake"
	}
	var text string
	at := base
	if h, ok := n.IsHold(); ok {
		if res.Time >= h.EndTime {
			return
		}
		if n.Time <= res.Time {
			at = 0
		} else {
			at = height - lineHeight
		}
		text = fmt.Sprintf("[%d] t:%.2f(%.2f) h:%.2f(%.2f)[%.2f]%s%s", lineID, n.Time, h.EndTime, n.Height, h.EndHeight, base, side, fake)
	} else {
		if res.Time >= n.Time {
			return
		}
		text = fmt.Sprintf("[%d] t:%.2f h:%.2f[%.2f]%s%s", lineID, n.Time, n.Height, base, side, fake)
	}
	if n.Speed != 1 {
		text += fmt.Sprintf(" v: %v", n.Speed)
	}
	flip := 1.0
	if !n.Above {
		flip = -1
	}
	res.WithModel(n.NowTransform(res, ctrl, at, cfg.InclineSin, false, false), func(res *Resource) {
		res.WithModel(vmath.Scaling(1, flip), func(res *Resource) {
			res.drawText(text, 0, size*0.15*flip, size, anim.RGBA(1, 1, 1, alpha))
		})
	})
}

// BadNote is the fading ghost left where a note was judged Bad.
type BadNote struct {
	Time  float64
	Kind  NoteKind
	Model f64.Aff3
}

// Render draws the ghost and reports whether it is still alive.
func (b *BadNote) Render(res *Resource) bool {
	if res.Time > b.Time+BadTime {
		return false
	}
	var tex Texture
	switch b.Kind.(type) {
	case Click:
		tex = res.Style.Click
	case Drag:
		tex = res.Style.Drag
	case Flick:
		tex = res.Style.Flick
	default:
		return false
	}
	c := anim.RGBA(0.423529, 0.262745, 0.262745, math.Max(b.Time-res.Time, -1)/BadTime+1)
	res.WithModel(b.Model, func(res *Resource) {
		res.drawCenter(tex, b.Kind.order(), res.NoteWidth, c)
	})
	return true
}
