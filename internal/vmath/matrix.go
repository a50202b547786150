package vmath

import (
	"math"

	"golang.org/x/image/math/f64"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Matrices are row major 2x3 affine transforms, f64.Aff3{a, b, c, d, e, f}:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
//
// The arithmetic is done by geom's matrix.Matrix, which stores the same
// transform column first as {a, d, b, e, c, f}.

func toMatrix(m f64.Aff3) matrix.Matrix {
	return matrix.Matrix{m[0], m[3], m[1], m[4], m[2], m[5]}
}

func fromMatrix(m matrix.Matrix) f64.Aff3 {
	return f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
}

func Identity() f64.Aff3 {
	return fromMatrix(matrix.Identity)
}

// Rotation returns a counter-clockwise rotation by deg degrees.
func Rotation(deg float64) f64.Aff3 {
	return fromMatrix(matrix.Rotate(deg * math.Pi / 180))
}

func Scaling(sx, sy float64) f64.Aff3 {
	return fromMatrix(matrix.Scale(sx, sy))
}

func Translation(tx, ty float64) f64.Aff3 {
	return fromMatrix(matrix.Translate(tx, ty))
}

// Mul returns a*b, the transform applying b first and a second.
func Mul(a, b f64.Aff3) f64.Aff3 {
	return fromMatrix(toMatrix(b).Mul(toMatrix(a)))
}

// AppendScaling applies a non-uniform scale after m.
func AppendScaling(m f64.Aff3, sx, sy float64) f64.Aff3 {
	return Mul(Scaling(sx, sy), m)
}

// AppendTranslation applies a translation after m.
func AppendTranslation(m f64.Aff3, tx, ty float64) f64.Aff3 {
	return Mul(Translation(tx, ty), m)
}

func Apply(m f64.Aff3, v f64.Vec2) f64.Vec2 {
	p := toMatrix(m).Apply(vec.Vec2{X: v[0], Y: v[1]})
	return f64.Vec2{p.X, p.Y}
}

// Origin is where m maps (0, 0).
func Origin(m f64.Aff3) f64.Vec2 {
	return f64.Vec2{m[2], m[5]}
}

func Rotate(deg float64, v f64.Vec2) f64.Vec2 {
	return Apply(Rotation(deg), v)
}

func Add(a, b f64.Vec2) f64.Vec2 {
	p := vec.Vec2{X: a[0], Y: a[1]}.Add(vec.Vec2{X: b[0], Y: b[1]})
	return f64.Vec2{p.X, p.Y}
}

// Invert returns the inverse of m, false when m is singular.
func Invert(m f64.Aff3) (f64.Aff3, bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 || math.IsNaN(det) {
		return f64.Aff3{}, false
	}
	return fromMatrix(toMatrix(m).Inv()), true
}

// ApproxEqual compares vectors within eps.
func ApproxEqual(a, b f64.Vec2, eps float64) bool {
	return math.Abs(a[0]-b[0]) <= eps && math.Abs(a[1]-b[1]) <= eps
}
