package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"golang.org/x/image/math/f64"

	"git.lost.host/meutraa/linesim/internal/anim"
	"git.lost.host/meutraa/linesim/internal/game"
	"git.lost.host/meutraa/linesim/internal/particle"
	"git.lost.host/meutraa/linesim/internal/theme"
)

func rect(x0, y0, x1, y1 float64) [4]f64.Vec2 {
	return [4]f64.Vec2{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func newTestRenderer() (*DefaultRenderer, *bytes.Buffer) {
	var out bytes.Buffer
	return NewWithWriter(&theme.DefaultTheme{}, &out, 40, 20), &out
}

func TestDrawAndDiff(t *testing.T) {
	r, out := newTestRenderer()
	if r.AspectRatio() != 1 {
		t.Fatalf("aspect %v", r.AspectRatio())
	}
	draws := []game.Draw{
		{Kind: game.DrawSprite, Texture: "click", Order: 2, Quad: rect(-0.1, -0.05, 0.1, 0.05), Color: anim.White},
		{Kind: game.DrawLine, Order: -1, Quad: rect(-6, -0.005, 6, 0.005), Color: anim.White},
		{Kind: game.DrawSprite, Texture: "mine", Quad: rect(0.5, 0.5, 0.6, 0.6), Color: anim.White},
	}
	r.Draw(draws)
	if err := r.Flush(); nil != err {
		t.Fatal(err)
	}
	frame := out.String()
	if !strings.Contains(frame, "▬") || !strings.Contains(frame, "─") {
		t.Fatalf("missing note or line in %q", frame)
	}
	if strings.Count(frame, "─") < 30 {
		t.Fatalf("line spans %d cells", strings.Count(frame, "─"))
	}

	out.Reset()
	r.Draw(draws)
	r.Flush()
	if out.Len() != 0 {
		t.Fatalf("unchanged frame wrote %q", out.String())
	}

	r.Flush()
	cleared := out.String()
	if strings.Contains(cleared, "▬") || !strings.Contains(cleared, "H ") {
		t.Fatalf("empty frame did not clear, wrote %q", cleared)
	}
}

func TestAlphaFades(t *testing.T) {
	r, out := newTestRenderer()
	r.Draw([]game.Draw{
		{Kind: game.DrawText, Quad: rect(0, 0, 0, 0), Text: "x", Color: anim.White.WithAlpha(0.5)},
		{Kind: game.DrawText, Quad: rect(0.5, 0.5, 0.5, 0.5), Text: "y", Color: anim.White.WithAlpha(0.01)},
	})
	r.Flush()
	if !strings.Contains(out.String(), "38;2;128;128;128mx") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if strings.Contains(out.String(), "y") {
		t.Fatal("drew an invisible cell")
	}
}

func TestCells(t *testing.T) {
	r, _ := newTestRenderer()
	for _, c := range [][2]int{{0, 0}, {39, 19}, {20, 10}, {7, 13}} {
		col, row := r.toCell(r.toScreen(c[0], c[1]))
		if col != c[0] || row != c[1] {
			t.Log("cell", c, "came back as", col, row)
			t.Fail()
		}
	}
	if col, row := r.toCell(f64.Vec2{-1, 1}); col != 0 || row != 0 {
		t.Fatalf("top left at %d %d", col, row)
	}
}

func TestInQuad(t *testing.T) {
	q := rect(-1, -1, 1, 1)
	for p, expected := range map[f64.Vec2]bool{{0, 0}: true, {0.9, -0.9}: true, {1.1, 0}: false, {0, -2}: false} {
		if inQuad(q, p) != expected {
			t.Log("point", p, "expected", expected)
			t.Fail()
		}
	}
	// clockwise winding
	q[1], q[3] = q[3], q[1]
	if !inQuad(q, f64.Vec2{0, 0}) {
		t.Fatal("clockwise quad excluded its centre")
	}
}

func TestParticles(t *testing.T) {
	r, out := newTestRenderer()
	fx := particle.NewHitEffect(0.1)
	fx.EmitAt(f64.Vec2{0, 0}, 0, anim.White)
	r.Particles(fx)
	r.Flush()
	if !strings.Contains(out.String(), r.Theme.SpriteGlyph()) {
		t.Fatalf("no hit sprite in %q", out.String())
	}
}

func lineCells(r *DefaultRenderer) [][2]int {
	var set [][2]int
	for i, c := range r.cells {
		if c.glyph == r.Theme.LineGlyph() {
			set = append(set, [2]int{i % r.cols, i / r.cols})
		}
	}
	return set
}

func TestLineHasNoGaps(t *testing.T) {
	r, _ := newTestRenderer()
	r.Draw([]game.Draw{{Kind: game.DrawLine, Quad: rect(-6, -0.005, 6, 0.005), Color: anim.White}})
	cells := lineCells(r)
	if len(cells) != r.cols {
		t.Fatalf("line set %d of %d cells", len(cells), r.cols)
	}
	for i, c := range cells {
		if c[0] != i || c[1] != r.rows/2 {
			t.Log("cell", i, "at", c)
			t.Fail()
		}
	}
}

func TestDiagonalLine(t *testing.T) {
	r, _ := newTestRenderer()
	// corner to corner, extending far past the screen
	r.Draw([]game.Draw{{Kind: game.DrawLine, Quad: [4]f64.Vec2{{-5, -5}, {5, 5}, {5, 5}, {-5, -5}}, Color: anim.White}})
	byCol := map[int]int{}
	rows := map[int]bool{}
	for _, c := range lineCells(r) {
		if _, ok := byCol[c[0]]; ok {
			t.Fatalf("column %d set twice on a shallow line", c[0])
		}
		byCol[c[0]] = c[1]
		rows[c[1]] = true
	}
	// the clipped ends sit on the grid border
	if len(byCol) < r.cols-2 || len(rows) < r.rows-1 {
		t.Fatalf("diagonal covers %d columns and %d rows", len(byCol), len(rows))
	}
	for col := 2; col < r.cols-1; col++ {
		row, ok := byCol[col]
		prev, prevOk := byCol[col-1]
		if !ok || !prevOk || abs(row-prev) > 1 {
			t.Log("gap at column", col)
			t.Fail()
		}
	}
}

func TestLineOffscreen(t *testing.T) {
	r, _ := newTestRenderer()
	r.Draw([]game.Draw{
		{Kind: game.DrawLine, Quad: rect(-6, 3, 6, 3.01), Color: anim.White},
		{Kind: game.DrawLine, Quad: [4]f64.Vec2{{math.NaN(), 0}, {1, 0}, {1, 0}, {math.NaN(), 0}}, Color: anim.White},
	})
	if cells := lineCells(r); len(cells) != 0 {
		t.Fatalf("offscreen line set %v", cells)
	}
}
