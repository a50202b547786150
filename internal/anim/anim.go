// Package anim evaluates keyframed curves and the animated transform bundles
// attached to judge lines and notes.
package anim

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/image/math/f64"
)

var ErrKeyframeOrder = errors.New("keyframe times must be strictly increasing")

// LerpFunc interpolates between a and b, t in [0, 1].
type LerpFunc[T any] func(a, b T, t float64) T

type Keyframe[T any] struct {
	Time  float64
	Value T
	// Tween eases the segment starting at this keyframe.
	Tween Tween
}

// Anim is a keyframed curve. The zero value is an empty curve that yields
// the caller supplied default.
type Anim[T any] struct {
	Keyframes []Keyframe[T]

	lerp   LerpFunc[T]
	cursor int
	time   float64
}

// New builds a curve using the default interpolation for T.
func New[T any](kfs []Keyframe[T]) (Anim[T], error) {
	return NewWith(kfs, nil)
}

// NewWith builds a curve with a custom interpolation. A nil lerp falls back
// to the default for T.
func NewWith[T any](kfs []Keyframe[T], lerp LerpFunc[T]) (Anim[T], error) {
	a := Anim[T]{Keyframes: kfs, lerp: lerp}
	if err := a.Validate(); err != nil {
		return Anim[T]{}, err
	}
	return a, nil
}

// Fixed is a single keyframe curve at time zero.
func Fixed[T any](v T) Anim[T] {
	return Anim[T]{Keyframes: []Keyframe[T]{{Value: v}}}
}

func (a *Anim[T]) Validate() error {
	for i := 1; i < len(a.Keyframes); i++ {
		if !(a.Keyframes[i].Time > a.Keyframes[i-1].Time) {
			return fmt.Errorf("keyframe %d at %v after %v: %w", i, a.Keyframes[i].Time, a.Keyframes[i-1].Time, ErrKeyframeOrder)
		}
	}
	return nil
}

func (a *Anim[T]) Len() int { return len(a.Keyframes) }

func (a *Anim[T]) Time() float64 { return a.time }

// SetTime moves the cursor to the segment containing t. Forward playback
// advances the cursor a step at a time, anything else binary searches.
func (a *Anim[T]) SetTime(t float64) {
	a.time = t
	n := len(a.Keyframes)
	if n == 0 {
		return
	}
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.Keyframes[a.cursor].Time <= t {
		for steps := 0; steps < 4; steps++ {
			if a.cursor+1 >= n || a.Keyframes[a.cursor+1].Time > t {
				return
			}
			a.cursor++
		}
	}
	i := sort.Search(n, func(i int) bool { return a.Keyframes[i].Time > t }) - 1
	if i < 0 {
		i = 0
	}
	a.cursor = i
}

func (a *Anim[T]) Now() T {
	var zero T
	return a.NowOr(zero)
}

// NowOr returns def when the curve has no keyframes.
func (a *Anim[T]) NowOr(def T) T {
	n := len(a.Keyframes)
	if n == 0 {
		return def
	}
	k := a.Keyframes[a.cursor]
	if a.cursor == n-1 || a.time <= k.Time {
		return k.Value
	}
	next := a.Keyframes[a.cursor+1]
	if a.time >= next.Time {
		return next.Value
	}
	p := (a.time - k.Time) / (next.Time - k.Time)
	return a.lerpFunc()(k.Value, next.Value, k.Tween.Ease(p))
}

// NowOpt reports false when the curve is empty or not yet driven, that is
// before its first keyframe.
func (a *Anim[T]) NowOpt() (T, bool) {
	if len(a.Keyframes) == 0 || a.time < a.Keyframes[0].Time {
		var zero T
		return zero, false
	}
	return a.Now(), true
}

// Dead reports whether the curve is past its last keyframe.
func (a *Anim[T]) Dead() bool {
	n := len(a.Keyframes)
	return n == 0 || a.time >= a.Keyframes[n-1].Time
}

func (a *Anim[T]) lerpFunc() LerpFunc[T] {
	if a.lerp == nil {
		a.lerp = defaultLerp[T]()
	}
	return a.lerp
}

func defaultLerp[T any]() LerpFunc[T] {
	var zero T
	var f any
	switch any(zero).(type) {
	case float64:
		f = LerpFunc[float64](lerpFloat)
	case f64.Vec2:
		f = LerpFunc[f64.Vec2](func(a, b f64.Vec2, t float64) f64.Vec2 {
			return f64.Vec2{lerpFloat(a[0], b[0], t), lerpFloat(a[1], b[1], t)}
		})
	case Color:
		f = LerpFunc[Color](func(a, b Color, t float64) Color { return a.Lerp(b, t) })
	default:
		// Anything without a natural blend holds its value until the next keyframe.
		f = LerpFunc[T](func(a, b T, t float64) T {
			if t >= 1 {
				return b
			}
			return a
		})
	}
	return f.(LerpFunc[T])
}

func lerpFloat(a, b, t float64) float64 {
	return a + (b-a)*t
}
