package game

import (
	"math"
	"testing"

	"golang.org/x/image/math/f64"

	"git.lost.host/meutraa/linesim/internal/anim"
	"git.lost.host/meutraa/linesim/internal/vmath"
)

type emission struct {
	pos      f64.Vec2
	rotation float64
	color    anim.Color
}

type recorder struct {
	emitted []emission
}

func (r *recorder) EmitAt(pos f64.Vec2, rotation float64, color anim.Color) {
	r.emitted = append(r.emitted, emission{pos, rotation, color})
}

func testResource() *Resource {
	res := NewResource(DefaultConfig())
	res.AspectRatio = 1
	return res
}

func mustBpm(t *testing.T, points ...BPMPoint) *BpmList {
	t.Helper()
	b, err := NewBpmList(points)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestHoldDeadOnlyAfterEnd(t *testing.T) {
	res := testResource()
	bpm := mustBpm(t, BPMPoint{0, 120})
	n := &Note{Kind: Hold{EndTime: 3, EndHeight: 3}, Time: 1, Height: 1, Speed: 1, Above: true}
	var ctrl anim.CtrlObject
	for i := 0; i < 300; i++ {
		res.Time = float64(i) * 0.01
		switch i {
		case 100:
			n.StartHold(Perfect, res.Time)
		case 150:
			n.Settle(Perfect)
		}
		n.Update(res, 0, vmath.Identity(), &ctrl, 0, bpm, 0)
		if n.Dead() {
			t.Fatalf("hold reported dead at %v with status %v", res.Time, n.Status())
		}
	}
	res.Time = 3
	n.Update(res, 0, vmath.Identity(), &ctrl, 0, bpm, 0)
	if !n.Dead() {
		t.Fatal("expected judged hold to be dead at its end time")
	}
}

func TestUnjudgedHoldNeverDead(t *testing.T) {
	res := testResource()
	res.Time = 10
	n := &Note{Kind: Hold{EndTime: 3}, Time: 1, Speed: 1}
	n.Object.SetTime(res.Time)
	if n.Dead() {
		t.Fatal("unjudged hold must stay alive")
	}
}

func TestJudgedStatusIsFinal(t *testing.T) {
	n := &Note{Kind: Hold{EndTime: 2}, Time: 1, Speed: 1}
	if !n.StartHold(Good, 1) {
		t.Fatal("expected hold to start")
	}
	if n.StartHold(Perfect, 1.01) {
		t.Fatal("hold started twice")
	}
	if !n.Settle(Good) {
		t.Fatal("expected hold to settle")
	}
	for _, g := range []Grade{Perfect, Miss, Bad} {
		if n.Settle(g) || n.StartHold(g, 2) {
			t.Fatal("judged status changed")
		}
	}
	if s := n.Status(); s.State != Judged || s.Grade != Good {
		t.Fatalf("unexpected status %v", s)
	}
	c := &Note{Kind: Click{}, Time: 1}
	if c.StartHold(Perfect, 1) {
		t.Fatal("click entered holding")
	}
}

func TestHoldParticlesOnBeat(t *testing.T) {
	rec := &recorder{}
	res := testResource()
	res.Emitter = rec
	bpm := mustBpm(t, BPMPoint{0, 120})
	n := &Note{Kind: Hold{EndTime: 3}, Time: 1, Speed: 1, Above: true}
	var ctrl anim.CtrlObject
	n.StartHold(Perfect, 1)
	for _, tm := range []float64{1, 1.1, 1.2, 1.25, 1.3, 1.5} {
		res.Time = tm
		n.Update(res, 0, vmath.Identity(), &ctrl, 0, bpm, 0)
	}
	if len(rec.emitted) != 3 {
		t.Fatalf("expected 3 particles, got %d", len(rec.emitted))
	}
	if rec.emitted[0].color != res.FxPerfect {
		t.Fatal("expected perfect colour")
	}
}

func TestHoldParticlesByOrdinal(t *testing.T) {
	rec := &recorder{}
	res := testResource()
	res.Emitter = rec
	res.Format = FormatPGR
	bpm := mustBpm(t, BPMPoint{0, 120}, BPMPoint{1, 60})
	n := &Note{Kind: Hold{EndTime: 3}, Time: 0.1, Speed: 1}
	var ctrl anim.CtrlObject
	n.StartHold(Good, 1)
	for _, tm := range []float64{1, 1.25, 1.49, 1.5} {
		res.Time = tm
		n.Update(res, 0, vmath.Identity(), &ctrl, 0, bpm, 1)
	}
	if len(rec.emitted) != 2 {
		t.Fatalf("expected 2 particles, got %d", len(rec.emitted))
	}
	if rec.emitted[1].color != res.FxGood || rec.emitted[1].rotation != 180 {
		t.Fatalf("unexpected emission %+v", rec.emitted[1])
	}
}

func TestNoteTransformOrder(t *testing.T) {
	res := testResource()
	n := &Note{Kind: Click{}, Speed: 1, Object: anim.Object{
		Rotation:     anim.Fixed(90.0),
		TranslationX: anim.Fixed(0.5),
		ScaleX:       anim.Fixed(2.0),
	}}
	n.Object.SetTime(0)
	var ctrl anim.CtrlObject

	m := n.NowTransform(res, &ctrl, 0.2, 0, false, false)
	if p := vmath.Apply(m, f64.Vec2{1, 0}); !vmath.ApproxEqual(p, f64.Vec2{0.5, 1.2}, 1e-9) {
		t.Fatalf("unexpected point %v", p)
	}
	// x scale is applied after rotation
	m = n.NowTransform(res, &ctrl, 0, 0, true, false)
	if p := vmath.Apply(m, f64.Vec2{0, 1}); !vmath.ApproxEqual(p, f64.Vec2{-1.5, 0}, 1e-9) {
		t.Fatalf("unexpected scaled point %v", p)
	}
}

func TestNoteIncline(t *testing.T) {
	res := testResource()
	n := &Note{Kind: Click{}, Speed: 1, Object: anim.Object{TranslationX: anim.Fixed(0.4)}}
	n.Object.SetTime(0)
	var ctrl anim.CtrlObject
	m := n.NowTransform(res, &ctrl, 0.1, 1, false, false)
	if o := vmath.Origin(m); math.Abs(o[0]-0.35) > 1e-12 || math.Abs(o[1]-0.1) > 1e-12 {
		t.Fatalf("unexpected origin %v", o)
	}
}

func TestCtrlPosScalesTranslation(t *testing.T) {
	res := testResource()
	n := &Note{Kind: Click{}, Height: 1, Speed: 1, Object: anim.Object{TranslationX: anim.Fixed(0.4)}}
	n.Object.SetTime(0)
	pos, err := anim.New([]anim.Keyframe[float64]{{Time: 0, Value: 2}, {Time: 900, Value: 4}})
	if err != nil {
		t.Fatal(err)
	}
	ctrl := anim.CtrlObject{Pos: pos}
	// height 1 above a line at 0 maps to 450 control units
	n.initCtrl(&ctrl, 0)
	m := n.NowTransform(res, &ctrl, 0, 0, false, false)
	if o := vmath.Origin(m); math.Abs(o[0]-1.2) > 1e-12 {
		t.Fatalf("expected x 1.2, got %v", o[0])
	}
}
