package theme

import (
	"git.lost.host/meutraa/linesim/internal/anim"
	"git.lost.host/meutraa/linesim/internal/game"
)

type DefaultTheme struct {
}

const (
	holdHeight = 1900.0
	holdEnd    = 50.0
)

// Skin textures are named after the sprites of the usual note skin and
// carry their pixel sizes, so note proportions match.
var (
	style = game.NoteStyle{
		Click:    game.Texture{Name: "click", Width: 989, Height: 100},
		Drag:     game.Texture{Name: "drag", Width: 989, Height: 60},
		Flick:    game.Texture{Name: "flick", Width: 989, Height: 200},
		Hold:     game.Texture{Name: "hold", Width: 989, Height: holdHeight},
		TailRect: game.Rect{X: 0, Y: 0, W: 1, H: holdEnd / holdHeight},
		BodyRect: game.Rect{X: 0, Y: holdEnd / holdHeight, W: 1, H: 1 - 2*holdEnd/holdHeight},
		HeadRect: game.Rect{X: 0, Y: 1 - holdEnd/holdHeight, W: 1, H: holdEnd / holdHeight},
	}
	styleMH = game.NoteStyle{
		Click:    game.Texture{Name: "click_mh", Width: 1089, Height: 200},
		Drag:     game.Texture{Name: "drag_mh", Width: 1089, Height: 160},
		Flick:    game.Texture{Name: "flick_mh", Width: 1089, Height: 300},
		Hold:     game.Texture{Name: "hold_mh", Width: 1089, Height: holdHeight + 100},
		TailRect: style.TailRect,
		BodyRect: style.BodyRect,
		HeadRect: style.HeadRect,
	}

	glyphs = map[string]string{
		"click":    "▬",
		"click_mh": "▬",
		"drag":     "▭",
		"drag_mh":  "▭",
		"flick":    "▲",
		"flick_mh": "▲",
		"hold":     "█",
		"hold_mh":  "█",
	}

	gradeColors = map[game.Grade]anim.Color{
		game.Perfect: anim.FromARGB(0xe1ffec9f),
		game.Good:    anim.FromARGB(0xebb4e1ff),
		game.Bad:     anim.FromARGB(0xff6b3b3a),
		game.Miss:    anim.RGBA(0.6, 0.6, 0.6, 1),
		game.Skipped: anim.RGBA(0.3, 0.3, 0.3, 1),
	}
	// multiple hint skins are tinted gold
	hintColor = anim.FromARGB(0xffffeca0)
)

func (t *DefaultTheme) Apply(res *game.Resource) {
	res.Style = style
	res.StyleMH = styleMH
	res.FxPerfect = gradeColors[game.Perfect]
	res.FxGood = gradeColors[game.Good]
}

func (t *DefaultTheme) Glyph(texture string) (string, bool) {
	g, ok := glyphs[texture]
	return g, ok
}

func (t *DefaultTheme) Tint(texture string) anim.Color {
	switch texture {
	case "click_mh", "drag_mh", "flick_mh", "hold_mh":
		return hintColor
	}
	return anim.White
}

func (t *DefaultTheme) LineGlyph() string {
	return "─"
}

func (t *DefaultTheme) TextColor() anim.Color {
	return anim.White
}

func (t *DefaultTheme) SpriteGlyph() string {
	return "✦"
}

func (t *DefaultTheme) SquareGlyph() string {
	return "·"
}

func (t *DefaultTheme) GradeColor(g game.Grade) anim.Color {
	if c, ok := gradeColors[g]; ok {
		return c
	}
	return anim.White
}
