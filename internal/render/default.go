package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/math/f64"
	"golang.org/x/term"

	"git.lost.host/meutraa/linesim/internal/anim"
	"git.lost.host/meutraa/linesim/internal/game"
	"git.lost.host/meutraa/linesim/internal/particle"
	"git.lost.host/meutraa/linesim/internal/theme"
)

// Terminal cells are about twice as tall as they are wide.
const cellAspect = 2.0

type cell struct {
	glyph string
	r     uint8
	g     uint8
	b     uint8
}

var blank = cell{glyph: " "}

// DefaultRenderer rasterises draw lists into terminal cells and writes only
// the cells that changed since the previous frame.
type DefaultRenderer struct {
	Theme theme.Theme

	out          io.Writer
	fd           int
	buffer       strings.Builder
	restoreState *term.State
	cols, rows   int
	cells, prev  []cell
	sorted       []game.Draw
}

// New renders to stdout, sized to the terminal.
func New(th theme.Theme) (*DefaultRenderer, error) {
	fd := int(os.Stdout.Fd())
	cols, rows, err := term.GetSize(fd)
	if nil != err {
		return nil, fmt.Errorf("unable to get terminal size: %w", err)
	}
	r := NewWithWriter(th, os.Stdout, cols, rows)
	r.fd = fd
	return r, nil
}

// NewWithWriter renders to w without touching terminal modes.
func NewWithWriter(th theme.Theme, w io.Writer, cols, rows int) *DefaultRenderer {
	r := &DefaultRenderer{
		Theme: th,
		out:   w,
		fd:    -1,
		cols:  cols,
		rows:  rows,
		cells: make([]cell, cols*rows),
		prev:  make([]cell, cols*rows),
	}
	for i := range r.cells {
		r.cells[i] = blank
		r.prev[i] = blank
	}
	return r
}

func (r *DefaultRenderer) Init() error {
	if r.fd >= 0 {
		state, err := term.MakeRaw(r.fd)
		if nil != err {
			return err
		}
		r.restoreState = state
	}

	_, err := fmt.Fprintf(r.out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[2J",     // Clear the screen
	)
	return err
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.fd, r.restoreState)
}

func (r *DefaultRenderer) AspectRatio() float64 {
	if r.rows == 0 {
		return 1
	}
	return float64(r.cols) / (float64(r.rows) * cellAspect)
}

func (r *DefaultRenderer) RenderLoop(framePeriod time.Duration, render func(now time.Time) bool) {
	cont := true
	for cont {
		now := time.Now()
		deadline := now.Add(framePeriod)

		cont = render(now)

		time.Sleep(time.Until(deadline))
	}
}

// toCell maps screen space, x right and y up in [-1/aspect, 1/aspect], to a cell.
func (r *DefaultRenderer) toCell(p f64.Vec2) (int, int) {
	aspect := r.AspectRatio()
	col := (p[0] + 1) / 2 * float64(r.cols)
	row := (1 - p[1]*aspect) / 2 * float64(r.rows)
	return int(math.Floor(col)), int(math.Floor(row))
}

// toScreen is the screen position of a cell's centre.
func (r *DefaultRenderer) toScreen(col, row int) f64.Vec2 {
	aspect := r.AspectRatio()
	x := (float64(col)+0.5)/float64(r.cols)*2 - 1
	y := (1 - (float64(row)+0.5)/float64(r.rows)*2) / aspect
	return f64.Vec2{x, y}
}

func (r *DefaultRenderer) set(col, row int, glyph string, c anim.Color) {
	if col < 0 || row < 0 || col >= r.cols || row >= r.rows {
		return
	}
	if c.A < 0.05 {
		return
	}
	// fade towards a dark background
	faded := c.Color.BlendRgb(anim.Black.Color, 1-math.Min(c.A, 1))
	cr, cg, cb := anim.Color{Color: faded, A: 1}.RGB255()
	r.cells[row*r.cols+col] = cell{glyph: glyph, r: cr, g: cg, b: cb}
}

// Draw rasterises a frame's draw list, back to front by Order.
func (r *DefaultRenderer) Draw(draws []game.Draw) {
	r.sorted = append(r.sorted[:0], draws...)
	sort.SliceStable(r.sorted, func(i, j int) bool {
		return r.sorted[i].Order < r.sorted[j].Order
	})
	for i := range r.sorted {
		d := &r.sorted[i]
		switch d.Kind {
		case game.DrawLine:
			r.line(d)
		case game.DrawSprite:
			r.sprite(d)
		case game.DrawText:
			col, row := r.toCell(d.Center())
			runes := []rune(d.Text)
			col -= len(runes) / 2
			for i, c := range runes {
				r.set(col+i, row, string(c), d.Color)
			}
		}
	}
}

// line walks the cells under the centre line of the quad, left edge to
// right edge, after clipping it to the screen.
func (r *DefaultRenderer) line(d *game.Draw) {
	q := d.Quad
	a := f64.Vec2{(q[0][0] + q[3][0]) / 2, (q[0][1] + q[3][1]) / 2}
	b := f64.Vec2{(q[1][0] + q[2][0]) / 2, (q[1][1] + q[2][1]) / 2}
	a, b, ok := clip(a, b, 1, 1/r.AspectRatio())
	if !ok {
		return
	}

	c0, r0 := r.toCell(a)
	c1, r1 := r.toCell(b)
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	glyph := r.Theme.LineGlyph()
	for e := dc + dr; ; {
		r.set(c0, r0, glyph, d.Color)
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

// clip trims the segment ab to the box |x| <= w, |y| <= h.
func clip(a, b f64.Vec2, w, h float64) (f64.Vec2, f64.Vec2, bool) {
	for _, v := range [4]float64{a[0], a[1], b[0], b[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return a, b, false
		}
	}
	t0, t1 := 0., 1.
	d := f64.Vec2{b[0] - a[0], b[1] - a[1]}
	for _, edge := range [4][2]float64{
		{-d[0], a[0] + w},
		{d[0], w - a[0]},
		{-d[1], a[1] + h},
		{d[1], h - a[1]},
	} {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return f64.Vec2{a[0] + d[0]*t0, a[1] + d[1]*t0}, f64.Vec2{a[0] + d[0]*t1, a[1] + d[1]*t1}, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// sprite fills every cell whose centre lies inside the quad, or the cell
// under the quad's centre when it is smaller than a cell.
func (r *DefaultRenderer) sprite(d *game.Draw) {
	glyph, ok := r.Theme.Glyph(d.Texture)
	if !ok {
		return
	}
	color := d.Color.Mul(r.Theme.Tint(d.Texture))

	minC, minR := math.MaxInt32, math.MaxInt32
	maxC, maxR := math.MinInt32, math.MinInt32
	for _, p := range d.Quad {
		c, row := r.toCell(p)
		minC, maxC = min(minC, c), max(maxC, c)
		minR, maxR = min(minR, row), max(maxR, row)
	}
	minC, maxC = max(minC, 0), min(maxC, r.cols-1)
	minR, maxR = max(minR, 0), min(maxR, r.rows-1)

	filled := false
	for row := minR; row <= maxR; row++ {
		for col := minC; col <= maxC; col++ {
			if inQuad(d.Quad, r.toScreen(col, row)) {
				r.set(col, row, glyph, color)
				filled = true
			}
		}
	}
	if !filled {
		col, row := r.toCell(d.Center())
		r.set(col, row, glyph, color)
	}
}

// inQuad tests p against a convex quad of either winding.
func inQuad(q [4]f64.Vec2, p f64.Vec2) bool {
	sign := 0.
	for i := range q {
		a, b := q[i], q[(i+1)%4]
		cross := (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

// Particles draws the squares under the hit sprites.
func (r *DefaultRenderer) Particles(fx *particle.HitEffect) {
	glyph := r.Theme.SquareGlyph()
	fx.Squares.Each(func(p particle.Particle) {
		col, row := r.toCell(f64.Vec2{float64(p.X), float64(p.Y)})
		r.set(col, row, glyph, p.Color)
	})
	glyph = r.Theme.SpriteGlyph()
	fx.Sprite.Each(func(p particle.Particle) {
		col, row := r.toCell(f64.Vec2{float64(p.X), float64(p.Y)})
		r.set(col, row, glyph, p.Color)
	})
}

// Text writes message in the theme's text colour, row and column from the
// top left.
func (r *DefaultRenderer) Text(row, column int, message string) {
	for i, c := range []rune(message) {
		r.set(column+i, row, string(c), r.Theme.TextColor())
	}
}

func (r *DefaultRenderer) fill(row, column int, c cell) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row + 1))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column + 1))
	r.buffer.WriteString("H")
	if c == blank {
		r.buffer.WriteString(" ")
		return
	}
	r.buffer.WriteString("\033[38;2;")
	r.buffer.WriteString(strconv.Itoa(int(c.r)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.g)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.b)))
	r.buffer.WriteString("m")
	r.buffer.WriteString(c.glyph)
	r.buffer.WriteString("\033[0m")
}

// Flush writes the cells changed since the last flush and starts a new
// blank frame.
func (r *DefaultRenderer) Flush() error {
	for i, c := range r.cells {
		if c != r.prev[i] {
			r.fill(i/r.cols, i%r.cols, c)
		}
	}
	r.cells, r.prev = r.prev, r.cells
	for i := range r.cells {
		r.cells[i] = blank
	}
	if r.buffer.Len() == 0 {
		return nil
	}
	_, err := io.WriteString(r.out, r.buffer.String())
	r.buffer.Reset()
	return err
}
