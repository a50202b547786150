package anim

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

// Tween selects the easing applied to a keyframe segment.
type Tween uint8

const (
	Linear Tween = iota
	Step
	SineIn
	SineOut
	SineInOut
	QuadIn
	QuadOut
	QuadInOut
	CubicIn
	CubicOut
	CubicInOut
	QuartIn
	QuartOut
	QuartInOut
	QuintIn
	QuintOut
	QuintInOut
	ExpoIn
	ExpoOut
	ExpoInOut
	CircIn
	CircOut
	CircInOut
	BackIn
	BackOut
	BackInOut
	ElasticIn
	ElasticOut
	ElasticInOut
	BounceIn
	BounceOut
	BounceInOut
	tweenCount
)

var tweenNames = [tweenCount]string{
	"linear", "step",
	"sine-in", "sine-out", "sine-in-out",
	"quad-in", "quad-out", "quad-in-out",
	"cubic-in", "cubic-out", "cubic-in-out",
	"quart-in", "quart-out", "quart-in-out",
	"quint-in", "quint-out", "quint-in-out",
	"expo-in", "expo-out", "expo-in-out",
	"circ-in", "circ-out", "circ-in-out",
	"back-in", "back-out", "back-in-out",
	"elastic-in", "elastic-out", "elastic-in-out",
	"bounce-in", "bounce-out", "bounce-in-out",
}

// Step has no curve, it jumps at the segment end.
var tweenFuncs = [tweenCount]ease.TweenFunc{
	Linear:       ease.Linear,
	SineIn:       ease.InSine,
	SineOut:      ease.OutSine,
	SineInOut:    ease.InOutSine,
	QuadIn:       ease.InQuad,
	QuadOut:      ease.OutQuad,
	QuadInOut:    ease.InOutQuad,
	CubicIn:      ease.InCubic,
	CubicOut:     ease.OutCubic,
	CubicInOut:   ease.InOutCubic,
	QuartIn:      ease.InQuart,
	QuartOut:     ease.OutQuart,
	QuartInOut:   ease.InOutQuart,
	QuintIn:      ease.InQuint,
	QuintOut:     ease.OutQuint,
	QuintInOut:   ease.InOutQuint,
	ExpoIn:       ease.InExpo,
	ExpoOut:      ease.OutExpo,
	ExpoInOut:    ease.InOutExpo,
	CircIn:       ease.InCirc,
	CircOut:      ease.OutCirc,
	CircInOut:    ease.InOutCirc,
	BackIn:       ease.InBack,
	BackOut:      ease.OutBack,
	BackInOut:    ease.InOutBack,
	ElasticIn:    ease.InElastic,
	ElasticOut:   ease.OutElastic,
	ElasticInOut: ease.InOutElastic,
	BounceIn:     ease.InBounce,
	BounceOut:    ease.OutBounce,
	BounceInOut:  ease.InOutBounce,
}

func (t Tween) String() string {
	if t < tweenCount {
		return tweenNames[t]
	}
	return fmt.Sprintf("tween(%d)", uint8(t))
}

// ParseTween maps a fixture easing name to a Tween. The empty string is linear.
func ParseTween(name string) (Tween, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Linear, nil
	}
	for i, n := range tweenNames {
		if n == name {
			return Tween(i), nil
		}
	}
	return Linear, fmt.Errorf("unknown easing %q", name)
}

// Ease maps segment progress p in [0, 1] to eased progress. Every tween
// except Step is continuous inside the segment, and Ease(0) == 0 and
// Ease(1) == 1 hold exactly.
func (t Tween) Ease(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	case t == Step:
		return 0
	case t >= tweenCount:
		return p
	}
	return float64(tweenFuncs[t](float32(p), 0, 1, 1))
}
