package anim

import (
	"golang.org/x/image/math/f64"

	"git.lost.host/meutraa/linesim/internal/vmath"
)

// Object is the animated transform shared by judge lines and notes.
// Rotation is in degrees, translation in chart units.
type Object struct {
	Alpha        Anim[float64]
	ScaleX       Anim[float64]
	ScaleY       Anim[float64]
	Rotation     Anim[float64]
	TranslationX Anim[float64]
	TranslationY Anim[float64]
	Color        Anim[Color]
}

func (o *Object) SetTime(t float64) {
	o.Alpha.SetTime(t)
	o.ScaleX.SetTime(t)
	o.ScaleY.SetTime(t)
	o.Rotation.SetTime(t)
	o.TranslationX.SetTime(t)
	o.TranslationY.SetTime(t)
	o.Color.SetTime(t)
}

// Time is the instant of the last SetTime.
func (o *Object) Time() float64 {
	return o.TranslationY.Time()
}

func (o *Object) Dead() bool {
	return o.Alpha.Dead() &&
		o.ScaleX.Dead() &&
		o.ScaleY.Dead() &&
		o.Rotation.Dead() &&
		o.TranslationX.Dead() &&
		o.TranslationY.Dead() &&
		o.Color.Dead()
}

func (o *Object) Validate() error {
	for _, a := range []*Anim[float64]{&o.Alpha, &o.ScaleX, &o.ScaleY, &o.Rotation, &o.TranslationX, &o.TranslationY} {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return o.Color.Validate()
}

// NowTranslation returns the translation with y corrected for the screen aspect ratio.
func (o *Object) NowTranslation(aspect float64) f64.Vec2 {
	return f64.Vec2{o.TranslationX.Now(), o.TranslationY.Now() / aspect}
}

func (o *Object) NowRotation() f64.Aff3 {
	return vmath.Rotation(o.Rotation.Now())
}

func (o *Object) NowScale() (float64, float64) {
	return o.ScaleX.NowOr(1), o.ScaleY.NowOr(1)
}

func (o *Object) NowScaleMatrix() f64.Aff3 {
	return vmath.Scaling(o.NowScale())
}

// NowColor combines the colour curve with the alpha curve.
func (o *Object) NowColor() Color {
	c := o.Color.NowOr(White)
	c.A *= o.Alpha.NowOr(1)
	return c
}

// CtrlObject holds per-line curves evaluated at a note's line-relative
// height rather than time. Every curve defaults to the identity.
type CtrlObject struct {
	Alpha Anim[float64]
	Size  Anim[float64]
	Pos   Anim[float64]
	Y     Anim[float64]
}

func (c *CtrlObject) SetHeight(h float64) {
	c.Alpha.SetTime(h)
	c.Size.SetTime(h)
	c.Pos.SetTime(h)
	c.Y.SetTime(h)
}

func (c *CtrlObject) Validate() error {
	for _, a := range []*Anim[float64]{&c.Alpha, &c.Size, &c.Pos, &c.Y} {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CtrlObject) IsDefault() bool {
	return c.Alpha.Len() == 0 && c.Size.Len() == 0 && c.Pos.Len() == 0 && c.Y.Len() == 0
}

func (c *CtrlObject) AlphaNow() float64 { return valueOr(&c.Alpha, 1) }
func (c *CtrlObject) SizeNow() float64  { return valueOr(&c.Size, 1) }
func (c *CtrlObject) PosNow() float64   { return valueOr(&c.Pos, 1) }
func (c *CtrlObject) YNow() float64     { return valueOr(&c.Y, 1) }

func valueOr(a *Anim[float64], def float64) float64 {
	if v, ok := a.NowOpt(); ok {
		return v
	}
	return def
}
