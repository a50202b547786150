package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"git.lost.host/meutraa/linesim/internal/anim"
	"git.lost.host/meutraa/linesim/internal/game"
)

var ErrFixture = errors.New("invalid chart fixture")

// scrollTail keeps lines scrolling this long past the last note.
const scrollTail = 60.0

type DefaultParser struct{}

func (p *DefaultParser) Parse(file string) (*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}
	chart, err := ParseBytes(data)
	if nil != err {
		return nil, fmt.Errorf("%v: %w", file, err)
	}
	return chart, nil
}

// ParseBytes decodes and validates a fixture.
func ParseBytes(data []byte) (*game.Chart, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f fixture
	if err := dec.Decode(&f); nil != err && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrFixture, err)
	}
	return f.chart()
}

func (f *fixture) chart() (*game.Chart, error) {
	format := game.FormatRPE
	if f.Format != "" {
		var err error
		if format, err = game.ParseChartFormat(f.Format); nil != err {
			return nil, fmt.Errorf("%w: %v", ErrFixture, err)
		}
	}

	points := make([]game.BPMPoint, len(f.BPM))
	for i, b := range f.BPM {
		points[i] = game.BPMPoint{Beat: b.Beat, BPM: b.BPM}
	}
	if len(points) == 0 {
		points = []game.BPMPoint{{Beat: 0, BPM: 120}}
	}
	bpm, err := game.NewBpmList(points)
	if nil != err {
		return nil, err
	}

	lines := make([]*game.Line, len(f.Lines))
	for i := range f.Lines {
		if lines[i], err = f.Lines[i].line(); nil != err {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
	}
	markMultiple(lines)

	return game.NewChart(lines, bpm, game.ChartSettings{
		PeAlphaExtension: f.Settings.PeAlphaExtension,
		HoldPartialCover: f.Settings.HoldPartialCover,
		NoteUniformScale: f.Settings.NoteUniformScale,
	}, format, f.Offset)
}

func (l *line) line() (*game.Line, error) {
	out := game.NewLine()
	out.RotateWithParent = l.RotateWithParent
	out.ZIndex = l.ZIndex
	out.ShowBelow = l.ShowBelow
	if nil != l.Parent {
		out.Parent = *l.Parent
	}
	if len(l.Anchor) != 0 {
		if len(l.Anchor) != 2 {
			return nil, fmt.Errorf("anchor needs two values: %w", ErrFixture)
		}
		out.Anchor = [2]float64{l.Anchor[0], l.Anchor[1]}
	}

	switch {
	case nil != l.Texture && len(l.Text) != 0:
		return nil, fmt.Errorf("line has both a texture and text: %w", ErrFixture)
	case nil != l.Texture:
		out.Kind = game.TextureLine{Texture: game.Texture(*l.Texture)}
	case len(l.Text) != 0:
		kfs := make([]anim.Keyframe[string], len(l.Text))
		for i, k := range l.Text {
			kfs[i] = anim.Keyframe[string]{Time: k.Time, Value: k.Value, Tween: anim.Step}
		}
		text, err := anim.New(kfs)
		if nil != err {
			return nil, fmt.Errorf("text: %w", err)
		}
		out.Kind = &game.TextLine{Text: text}
	}

	var err error
	curves := []struct {
		name string
		dst  *anim.Anim[float64]
		src  []keyframe
	}{
		{"alpha", &out.Object.Alpha, l.Alpha},
		{"x", &out.Object.TranslationX, l.X},
		{"y", &out.Object.TranslationY, l.Y},
		{"rotation", &out.Object.Rotation, l.Rotation},
		{"scale_x", &out.Object.ScaleX, l.ScaleX},
		{"scale_y", &out.Object.ScaleY, l.ScaleY},
		{"incline", &out.Incline, l.Incline},
		{"ctrl alpha", &out.Ctrl.Alpha, l.Ctrl.Alpha},
		{"ctrl size", &out.Ctrl.Size, l.Ctrl.Size},
		{"ctrl pos", &out.Ctrl.Pos, l.Ctrl.Pos},
		{"ctrl y", &out.Ctrl.Y, l.Ctrl.Y},
	}
	for _, c := range curves {
		if *c.dst, err = curve(c.src); nil != err {
			return nil, fmt.Errorf("%v: %w", c.name, err)
		}
	}
	if out.Color, err = colorCurve(l.Color); nil != err {
		return nil, fmt.Errorf("color: %w", err)
	}

	if len(l.Height) != 0 {
		if nil != l.Speed {
			return nil, fmt.Errorf("line has both speed and height: %w", ErrFixture)
		}
		if out.Height, err = curve(l.Height); nil != err {
			return nil, fmt.Errorf("height: %w", err)
		}
	} else {
		speed := 1.0
		if nil != l.Speed {
			speed = *l.Speed
		}
		end := 0.0
		for _, n := range l.Notes {
			end = math.Max(end, math.Max(n.Time, n.End))
		}
		end += scrollTail
		out.Height, _ = anim.New([]anim.Keyframe[float64]{
			{Time: 0, Value: 0},
			{Time: end, Value: end * speed},
		})
	}

	out.Notes = make([]*game.Note, len(l.Notes))
	for i := range l.Notes {
		if out.Notes[i], err = l.Notes[i].note(out.Height); nil != err {
			return nil, fmt.Errorf("note %d: %w", i, err)
		}
	}
	return out, nil
}

// heightAt evaluates a copy so the line's own cursor is untouched.
func heightAt(h anim.Anim[float64], t float64) float64 {
	h.SetTime(t)
	return h.Now()
}

func (n *note) note(height anim.Anim[float64]) (*game.Note, error) {
	out := &game.Note{
		Time:   n.Time,
		Height: heightAt(height, n.Time),
		Speed:  1,
		Above:  !n.Below,
		Fake:   n.Fake,
	}
	if nil != n.Speed {
		out.Speed = *n.Speed
	}
	switch n.Kind {
	case "click", "":
		out.Kind = game.Click{}
	case "drag":
		out.Kind = game.Drag{}
	case "flick":
		out.Kind = game.Flick{}
	case "hold":
		hold := game.Hold{EndTime: n.End, EndHeight: heightAt(height, n.End)}
		if nil != n.EndSpeed {
			hold.EndSpeed, hold.HasEndSpeed = *n.EndSpeed, true
		}
		out.Kind = hold
	default:
		return nil, fmt.Errorf("unknown kind %q: %w", n.Kind, ErrFixture)
	}
	if n.Kind != "hold" && n.End != 0 {
		return nil, fmt.Errorf("%v has an end time: %w", n.Kind, ErrFixture)
	}

	if n.X != 0 {
		out.Object.TranslationX = anim.Fixed(n.X)
	}
	if n.Y != 0 {
		out.Object.TranslationY = anim.Fixed(n.Y)
	}
	var err error
	if out.Object.Alpha, err = curve(n.Alpha); nil != err {
		return nil, fmt.Errorf("alpha: %w", err)
	}
	return out, nil
}

func curve(src []keyframe) (anim.Anim[float64], error) {
	if len(src) == 0 {
		return anim.Anim[float64]{}, nil
	}
	kfs := make([]anim.Keyframe[float64], len(src))
	for i, k := range src {
		tween, err := anim.ParseTween(k.Ease)
		if nil != err {
			return anim.Anim[float64]{}, fmt.Errorf("%w: %v", ErrFixture, err)
		}
		kfs[i] = anim.Keyframe[float64]{Time: k.Time, Value: k.Value, Tween: tween}
	}
	return anim.New(kfs)
}

func colorCurve(src []colorKeyframe) (anim.Anim[anim.Color], error) {
	if len(src) == 0 {
		return anim.Anim[anim.Color]{}, nil
	}
	kfs := make([]anim.Keyframe[anim.Color], len(src))
	for i, k := range src {
		tween, err := anim.ParseTween(k.Ease)
		if nil != err {
			return anim.Anim[anim.Color]{}, fmt.Errorf("%w: %v", ErrFixture, err)
		}
		c, err := colorful.Hex(k.Value)
		if nil != err {
			return anim.Anim[anim.Color]{}, fmt.Errorf("%w: %v", ErrFixture, err)
		}
		a := 1.0
		if nil != k.Alpha {
			a = *k.Alpha
		}
		kfs[i] = anim.Keyframe[anim.Color]{Time: k.Time, Value: anim.Color{Color: c, A: a}, Tween: tween}
	}
	return anim.New(kfs)
}

// markMultiple flags real notes that share their time with another real
// note anywhere in the chart.
func markMultiple(lines []*game.Line) {
	counts := map[int64]int{}
	key := func(t float64) int64 {
		return int64(math.Round(t * 1000))
	}
	for _, l := range lines {
		for _, n := range l.Notes {
			if !n.Fake {
				counts[key(n.Time)]++
			}
		}
	}
	for _, l := range lines {
		for _, n := range l.Notes {
			n.MultipleHint = !n.Fake && counts[key(n.Time)] > 1
		}
	}
}
