package theme

import (
	"testing"

	"git.lost.host/meutraa/linesim/internal/game"
)

func TestStylesHaveGlyphs(t *testing.T) {
	var th Theme = &DefaultTheme{}
	res := game.NewResource(game.DefaultConfig())
	th.Apply(res)
	for _, s := range []game.NoteStyle{res.Style, res.StyleMH} {
		for _, tex := range []game.Texture{s.Click, s.Drag, s.Flick, s.Hold} {
			if !tex.Valid() {
				t.Log("invalid texture", tex)
				t.Fail()
			}
			if _, ok := th.Glyph(tex.Name); !ok {
				t.Log("no glyph for", tex.Name)
				t.Fail()
			}
		}
	}
	if _, ok := th.Glyph("mine"); ok {
		t.Fatal("glyph for an unknown texture")
	}
}

func TestHoldRects(t *testing.T) {
	res := game.NewResource(game.DefaultConfig())
	(&DefaultTheme{}).Apply(res)
	s := res.Style
	if total := s.TailRect.H + s.BodyRect.H + s.HeadRect.H; total < 0.999 || total > 1.001 {
		t.Fatalf("hold rects cover %v of the texture", total)
	}
	if s.BodyRect.Y != s.TailRect.Y+s.TailRect.H {
		t.Fatal("body does not follow the tail")
	}
}

func TestTint(t *testing.T) {
	th := &DefaultTheme{}
	if th.Tint("click") != th.TextColor() {
		t.Fatal("plain sprite tinted")
	}
	if th.Tint("click_mh") == th.TextColor() {
		t.Fatal("multiple hint sprite not tinted")
	}
	if th.GradeColor(game.Perfect) == th.GradeColor(game.Good) {
		t.Fatal("perfect and good share a colour")
	}
}
