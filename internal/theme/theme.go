package theme

import (
	"git.lost.host/meutraa/linesim/internal/anim"
	"git.lost.host/meutraa/linesim/internal/game"
)

type Theme interface {
	// Apply installs the note skins and hit colours.
	Apply(res *game.Resource)
	// Glyph is the terminal cell for a sprite, false for unknown textures.
	Glyph(texture string) (string, bool)
	// Tint is multiplied into a sprite's colour.
	Tint(texture string) anim.Color
	LineGlyph() string
	TextColor() anim.Color
	SpriteGlyph() string
	SquareGlyph() string
	GradeColor(g game.Grade) anim.Color
}
