package curve

import (
	"math"
	"testing"

	"gioui.org/f32"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSolveDegenerate(t *testing.T) {
	if got := Solve(nil); len(got) != 0 {
		t.Errorf("expected no segments for no points, got %v", got)
	}
	if got := Solve([]f32.Point{f32.Pt(3, 4)}); len(got) != 0 {
		t.Errorf("expected no segments for one point, got %v", got)
	}
	p0, p1 := f32.Pt(0, 10), f32.Pt(5, 2)
	got := Solve([]f32.Point{p0, p1})
	expect := []Segment{{First: p0, Second: p1}}
	if diff := cmp.Diff(expect, got); diff != "" {
		t.Errorf("unexpected segment for two points (-want +got):\n%s", diff)
	}
}

func TestSolveSymmetricPeak(t *testing.T) {
	got := Solve([]f32.Point{f32.Pt(0, 0), f32.Pt(1, 1), f32.Pt(2, 0)})
	expect := []Segment{
		{First: f32.Pt(1.0/3, 0.5), Second: f32.Pt(2.0/3, 1)},
		{First: f32.Pt(4.0/3, 1), Second: f32.Pt(5.0/3, 0.5)},
	}
	if diff := cmp.Diff(expect, got, cmpopts.EquateApprox(0, 1e-5)); diff != "" {
		t.Errorf("unexpected control points (-want +got):\n%s", diff)
	}
}

func TestSolveSegmentCount(t *testing.T) {
	for n := 2; n < 40; n++ {
		points := make([]f32.Point, n)
		for i := range points {
			x := float32(i) * 12.5
			y := float32(100 * math.Sin(float64(i)/3))
			points[i] = f32.Pt(x, y)
		}
		segments := Solve(points)
		if len(segments) != n-1 {
			t.Errorf("expected %d segments for %d points, got %d", n-1, n, len(segments))
		}
		for i, s := range segments {
			for _, v := range []float32{s.First.X, s.First.Y, s.Second.X, s.Second.Y} {
				if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
					t.Errorf("segment %d of %d has non-finite control point %v", i, n, s)
				}
			}
		}
	}
}

// offLine reports the distance of p from the line y = m*x + b.
func offLine(p f32.Point, m, b float64) float64 {
	return math.Abs(float64(p.Y)-(m*float64(p.X)+b)) / math.Sqrt(1+m*m)
}

func TestSolveCollinear(t *testing.T) {
	const m, b = 2.0, 1.0
	xs := []float64{0, 1, 3, 4.5, 7, 8, 12}
	points := make([]f32.Point, len(xs))
	for i, x := range xs {
		points[i] = f32.Pt(float32(x), float32(m*x+b))
	}
	for i, s := range Solve(points) {
		if d := offLine(s.First, m, b); d > 1e-3 {
			t.Errorf("segment %d first control point %v is %f off the line", i, s.First, d)
		}
		if d := offLine(s.Second, m, b); d > 1e-3 {
			t.Errorf("segment %d second control point %v is %f off the line", i, s.Second, d)
		}
	}
}

func TestSolveContinuity(t *testing.T) {
	points := []f32.Point{
		f32.Pt(0, 40), f32.Pt(10, 10), f32.Pt(20, 35), f32.Pt(30, 5), f32.Pt(40, 25),
	}
	segments := Solve(points)
	// The incoming and outgoing tangents must agree at every interior point.
	for i := 1; i < len(points)-1; i++ {
		in := points[i].Sub(segments[i-1].Second)
		out := segments[i].First.Sub(points[i])
		if math.Abs(float64(in.X-out.X)) > 1e-3 || math.Abs(float64(in.Y-out.Y)) > 1e-3 {
			t.Errorf("tangent discontinuity at point %d: in %v, out %v", i, in, out)
		}
	}
}
