package anim

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB colour with straight alpha.
type Color struct {
	colorful.Color
	A float64
}

var (
	White       = Color{colorful.Color{R: 1, G: 1, B: 1}, 1}
	Black       = Color{colorful.Color{}, 1}
	Transparent = Color{colorful.Color{R: 1, G: 1, B: 1}, 0}
)

func RGBA(r, g, b, a float64) Color {
	return Color{colorful.Color{R: r, G: g, B: b}, a}
}

// FromARGB decodes a packed 0xAARRGGBB value.
func FromARGB(v uint32) Color {
	return Color{
		colorful.Color{
			R: float64(v>>16&0xff) / 255,
			G: float64(v>>8&0xff) / 255,
			B: float64(v&0xff) / 255,
		},
		float64(v>>24&0xff) / 255,
	}
}

// Lerp blends in RGB space, matching how keyframed colours are authored.
func (c Color) Lerp(to Color, t float64) Color {
	return Color{c.Color.BlendRgb(to.Color, t), c.A + (to.A-c.A)*t}
}

// Mul multiplies channels, used to tint particle curves by a base colour.
func (c Color) Mul(o Color) Color {
	return Color{colorful.Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B}, c.A * o.A}
}

func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// RGB255 returns clamped 8-bit channels for terminal output.
func (c Color) RGB255() (uint8, uint8, uint8) {
	return c.Clamped().RGB255()
}
