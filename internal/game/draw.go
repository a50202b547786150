package game

import (
	"golang.org/x/image/math/f64"

	"git.lost.host/meutraa/linesim/internal/anim"
)

type DrawKind uint8

const (
	DrawSprite DrawKind = iota
	DrawLine
	DrawText
)

// Rect is a normalised texture region.
type Rect struct {
	X, Y, W, H float64
}

var FullRect = Rect{0, 0, 1, 1}

// Texture names a sprite and its pixel size.
type Texture struct {
	Name          string
	Width, Height float64
}

func (t Texture) Valid() bool {
	return t.Name != "" && t.Width > 0 && t.Height > 0
}

// NoteStyle is the set of sprites a note skin provides.
type NoteStyle struct {
	Click, Drag, Flick Texture
	// Hold holds head, body and tail, split by the rects below.
	Hold     Texture
	HoldBody Texture
	HeadRect Rect
	BodyRect Rect
	TailRect Rect

	// HoldRepeat tiles HoldBody instead of stretching the body rect.
	HoldRepeat   bool
	HoldCompact  bool
	HoldKeepHead bool
}

func (s *NoteStyle) holdRatio() float64 {
	return s.Hold.Height / s.Hold.Width
}

// Draw is one entry of the per frame draw list. Quad holds the screen
// space corners, bottom left first and counter clockwise.
type Draw struct {
	Kind    DrawKind
	Texture string
	Source  Rect
	Order   int
	Quad    [4]f64.Vec2
	Color   anim.Color
	Text    string
	Size    float64
}

// Center is the midpoint of the quad.
func (d *Draw) Center() f64.Vec2 {
	var c f64.Vec2
	for _, p := range d.Quad {
		c[0] += p[0] / 4
		c[1] += p[1] / 4
	}
	return c
}
