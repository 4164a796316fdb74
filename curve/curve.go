// Package curve fits a smooth curve through a polyline.
//
// Solve computes, for every pair of consecutive points, the two control
// points of a cubic Bezier segment joining them. The control points come from
// a global fit over all points, so the resulting curve has a continuous first
// derivative at every interior point.
package curve

import (
	"gioui.org/f32"
)

// Segment holds the control points of the cubic Bezier between two
// consecutive data points.
type Segment struct {
	First, Second f32.Point
}

// point is a float64 point used while solving so that long series do not
// accumulate float32 rounding error.
type point struct {
	x, y float64
}

func (p point) add(q point) point   { return point{p.x + q.x, p.y + q.y} }
func (p point) sub(q point) point   { return point{p.x - q.x, p.y - q.y} }
func (p point) mul(s float64) point { return point{p.x * s, p.y * s} }
func (p point) div(s float64) point { return point{p.x / s, p.y / s} }
func (p point) f32() f32.Point      { return f32.Pt(float32(p.x), float32(p.y)) }
func fromF32(p f32.Point) point     { return point{float64(p.X), float64(p.Y)} }
func weighted(a float64, p0 point, b float64, p3 point) point {
	return p0.mul(a).add(p3.mul(b))
}

// Solve returns one Segment per consecutive pair of points, in input order.
// Fewer than two points yield no segments. Two points yield a single segment
// whose control points are the points themselves.
func Solve(points []f32.Point) []Segment {
	segments := len(points) - 1
	if segments < 1 {
		return nil
	}
	if segments == 1 {
		return []Segment{{First: points[0], Second: points[1]}}
	}

	data := make([]point, len(points))
	for i, p := range points {
		data[i] = fromF32(p)
	}

	// Build the tridiagonal system for the first control points. bd, d and ad
	// are the sub-diagonal, diagonal and super-diagonal coefficients.
	bd := make([]float64, segments)
	d := make([]float64, segments)
	ad := make([]float64, segments)
	rhs := make([]point, segments)
	for i := 0; i < segments; i++ {
		p0, p3 := data[i], data[i+1]
		switch i {
		case 0:
			bd[i], d[i], ad[i] = 0, 2, 1
			rhs[i] = weighted(1, p0, 2, p3)
		case segments - 1:
			bd[i], d[i], ad[i] = 2, 7, 0
			rhs[i] = weighted(8, p0, 1, p3)
		default:
			bd[i], d[i], ad[i] = 1, 4, 1
			rhs[i] = weighted(4, p0, 2, p3)
		}
	}

	first := thomas(bd, d, ad, rhs)

	out := make([]Segment, segments)
	for i := 0; i < segments; i++ {
		var second point
		if i == segments-1 {
			second = data[i+1].add(first[i]).mul(0.5)
		} else {
			second = data[i+1].mul(2).sub(first[i+1])
		}
		out[i] = Segment{First: first[i].f32(), Second: second.f32()}
	}
	return out
}

// thomas solves the tridiagonal system described by the sub-diagonal bd,
// diagonal d and super-diagonal ad against rhs, independently for each axis.
// The slices must have equal length n >= 2; ad and rhs are not modified.
func thomas(bd, d, ad []float64, rhs []point) []point {
	n := len(d)
	c := make([]float64, n)
	r := make([]point, n)

	// Forward elimination.
	c[0] = ad[0] / d[0]
	r[0] = rhs[0].div(d[0])
	for i := 1; i < n; i++ {
		denom := d[i] - bd[i]*c[i-1]
		c[i] = ad[i] / denom
		r[i] = rhs[i].sub(r[i-1].mul(bd[i])).div(denom)
	}

	// Back substitution.
	x := make([]point, n)
	x[n-1] = r[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = r[i].sub(x[i+1].mul(c[i]))
	}
	return x
}
