package game

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/image/math/f64"

	"git.lost.host/meutraa/linesim/internal/vmath"
)

// MaxParentDepth bounds parent chains, deeper charts are rejected at load.
const MaxParentDepth = 128

var (
	ErrParent     = errors.New("invalid parent line")
	ErrHoldTiming = errors.New("hold must end after it starts")
)

// NoteRef addresses a note by line and position within that line.
type NoteRef struct {
	Line int
	Note int
}

type Chart struct {
	Offset   float64
	Lines    []*Line
	Bpm      *BpmList
	Settings ChartSettings
	Format   ChartFormat

	order    []int
	badNotes []BadNote
}

// NewChart validates the lines and builds every line's cache. The chart
// must not be simulated if this fails.
func NewChart(lines []*Line, bpm *BpmList, settings ChartSettings, format ChartFormat, offset float64) (*Chart, error) {
	if bpm == nil {
		return nil, fmt.Errorf("missing tempo map: %w", ErrBPM)
	}
	for i, l := range lines {
		if err := validateLine(l); err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
	}
	if err := validateParents(lines); err != nil {
		return nil, err
	}

	c := &Chart{
		Offset:   offset,
		Lines:    lines,
		Bpm:      bpm,
		Settings: settings,
		Format:   format,
		order:    make([]int, len(lines)),
	}
	for i, l := range lines {
		if l.Kind == nil {
			l.Kind = NormalLine{}
		}
		l.Reset()
		c.order[i] = i
	}
	sort.SliceStable(c.order, func(i, j int) bool {
		return lines[c.order[i]].ZIndex < lines[c.order[j]].ZIndex
	})
	return c, nil
}

func validateLine(l *Line) error {
	if err := l.Object.Validate(); err != nil {
		return err
	}
	if err := l.Ctrl.Validate(); err != nil {
		return err
	}
	if err := l.Height.Validate(); err != nil {
		return fmt.Errorf("height: %w", err)
	}
	if err := l.Incline.Validate(); err != nil {
		return fmt.Errorf("incline: %w", err)
	}
	if err := l.Color.Validate(); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	if k, ok := l.Kind.(*TextLine); ok {
		if err := k.Text.Validate(); err != nil {
			return fmt.Errorf("text: %w", err)
		}
	}
	for j, n := range l.Notes {
		if n.Kind == nil {
			return fmt.Errorf("note %d has no kind", j)
		}
		if h, ok := n.IsHold(); ok && !(h.EndTime > n.Time) {
			return fmt.Errorf("note %d at %v ends at %v: %w", j, n.Time, h.EndTime, ErrHoldTiming)
		}
		if err := n.Object.Validate(); err != nil {
			return fmt.Errorf("note %d: %w", j, err)
		}
	}
	return nil
}

// validateParents rejects dangling references, cycles and chains deeper
// than MaxParentDepth.
func validateParents(lines []*Line) error {
	for i, l := range lines {
		depth := 0
		for p := l.Parent; p != NoParent; p = lines[p].Parent {
			if p < 0 || p >= len(lines) {
				return fmt.Errorf("line %d references %d: %w", i, p, ErrParent)
			}
			if p == i {
				return fmt.Errorf("line %d is its own ancestor: %w", i, ErrParent)
			}
			depth++
			if depth > MaxParentDepth || depth > len(lines) {
				return fmt.Errorf("line %d parent chain deeper than %d: %w", i, MaxParentDepth, ErrParent)
			}
		}
	}
	return nil
}

// Update advances every line and note to res.Time.
func (c *Chart) Update(res *Resource) {
	res.Format = c.Format
	res.Settings = c.Settings
	for _, l := range c.Lines {
		l.Object.SetTime(res.Time)
	}
	for i, l := range c.Lines {
		l.Update(res, l.NowTransform(c.Lines, res.AspectRatio), l.FetchRotate(c.Lines), c.Bpm, i)
	}
}

// Render fills res.Draws for the current frame, lines in z order.
func (c *Chart) Render(res *Resource) {
	res.ResetDraws()
	for _, i := range c.order {
		c.Lines[i].Render(res, c.Lines, c.Bpm, &c.Settings, i)
	}
	kept := c.badNotes[:0]
	for _, b := range c.badNotes {
		if b.Render(res) {
			kept = append(kept, b)
		}
	}
	c.badNotes = kept
}

// Seek jumps to t. Notes wholly before t become Skipped, the rest
// unjudged, and every line cache is rebuilt.
func (c *Chart) Seek(t float64) {
	for _, l := range c.Lines {
		l.Object.SetTime(t)
		l.Height.SetTime(t)
		l.Incline.SetTime(t)
		l.Color.SetTime(t)
		for _, n := range l.Notes {
			n.Object.SetTime(t)
			n.resetJudge(t)
		}
		l.Reset()
	}
	c.badNotes = c.badNotes[:0]
}

func (c *Chart) Note(ref NoteRef) *Note {
	return c.Lines[ref.Line].Notes[ref.Note]
}

// NoteCount counts judgeable notes.
func (c *Chart) NoteCount() int {
	count := 0
	for _, l := range c.Lines {
		for _, n := range l.Notes {
			if !n.Fake {
				count++
			}
		}
	}
	return count
}

// noteModel returns the screen transform of a note and the direction its
// particles fly in. onNote places it at the note's scroll position rather
// than on the line.
func (c *Chart) noteModel(res *Resource, ref NoteRef, onNote bool) (f64.Aff3, float64) {
	l := c.Lines[ref.Line]
	n := l.Notes[ref.Note]
	lineHeight := l.Height.Now()
	n.initCtrl(&l.Ctrl, lineHeight)
	base, inclineSin := 0.0, 0.0
	if onNote {
		spd := n.Speed * l.Ctrl.YNow()
		base = (n.Height - lineHeight) / res.AspectRatio * spd
		if v, ok := l.Incline.NowOpt(); ok {
			inclineSin = sinDeg(v)
		}
	}
	m := n.NowTransform(res, &l.Ctrl, base, inclineSin, false, false)
	if !n.Above {
		m = vmath.Mul(vmath.Scaling(1, -1), m)
	}
	return vmath.Mul(l.NowTransform(c.Lines, res.AspectRatio), m), l.FetchRotate(c.Lines) + n.rotation()
}

// EmitHit requests the hit effect for a note in the colour of its grade.
// Only Perfect and Good produce particles.
func (c *Chart) EmitHit(res *Resource, ref NoteRef, grade Grade) {
	if !grade.Hit() {
		return
	}
	color := res.FxGood
	if grade == Perfect {
		color = res.FxPerfect
	}
	m, rot := c.noteModel(res, ref, false)
	res.WithModel(m, func(res *Resource) {
		res.EmitAtOrigin(rot, color)
	})
}

// AddBadNote leaves a fading ghost where the note was at time t.
func (c *Chart) AddBadNote(res *Resource, ref NoteRef, t float64) {
	n := c.Note(ref)
	if _, ok := n.IsHold(); ok {
		return
	}
	m, _ := c.noteModel(res, ref, true)
	c.badNotes = append(c.badNotes, BadNote{Time: t, Kind: n.Kind, Model: m})
}

// LateralDistance is how far p lies from the note along its line, measured
// in the line's frame.
func (c *Chart) LateralDistance(res *Resource, ref NoteRef, p f64.Vec2) float64 {
	l := c.Lines[ref.Line]
	inv, ok := vmath.Invert(l.NowTransform(c.Lines, res.AspectRatio))
	if !ok {
		return math.Inf(1)
	}
	local := vmath.Apply(inv, p)
	return math.Abs(local[0] - c.Note(ref).Object.TranslationX.Now())
}
