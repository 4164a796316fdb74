// Package chart lays out bar and line charts and maps pointer positions back
// to data items.
//
// Layout turns a DataSource, a Config and a viewport size into a Result: a
// plain value holding every line, label, bar and path to draw. The package
// never draws and never keeps a Result after returning it.
package chart

import (
	"context"
	"errors"
	"math"
	"strconv"

	"gioui.org/f32"
	"golang.org/x/sync/errgroup"

	"git.sr.ht/~whereswaldon/scrubchart/curve"
	"git.sr.ht/~whereswaldon/scrubchart/scale"
)

// ErrEmptyDataset is returned by Layout when the data source has no items.
var ErrEmptyDataset = errors.New("chart: data source has no items")

// snapshot is a copy of everything Layout reads from a DataSource, taken
// before any concurrent work starts.
type snapshot struct {
	points  []DataPoint
	ys      []float64
	columns []string
	// vdash and hdash hold nil for solid lines.
	vdash []Dash
	hdash []Dash
	ticks []float64
}

func takeSnapshot(src DataSource) snapshot {
	n := src.ItemCount()
	s := snapshot{
		points: make([]DataPoint, n),
		ys:     make([]float64, n),
	}
	for i := 0; i < n; i++ {
		y := src.YValue(i)
		s.points[i] = DataPoint{X: src.XValue(i), Y: y}
		s.ys[i] = y
	}
	s.ticks = scale.Ticks(s.ys)

	columns := src.VerticalLineCount()
	s.columns = make([]string, max(1, columns))
	for i := 0; i < columns; i++ {
		s.columns[i] = src.VerticalLabel(i)
	}
	s.vdash = make([]Dash, len(s.columns))
	if d, ok := src.(VerticalDasher); ok {
		for i := range s.vdash {
			if pattern, ok := d.VerticalDashPattern(i); ok {
				s.vdash[i] = pattern
			}
		}
	}
	s.hdash = make([]Dash, len(s.ticks))
	if d, ok := src.(HorizontalDasher); ok {
		for i := range s.hdash {
			if pattern, ok := d.HorizontalDashPattern(i); ok {
				s.hdash[i] = pattern
			}
		}
	}
	return s
}

// frame is the shared read-only geometry every sub-computation derives from.
type frame struct {
	cfg         Config
	left, right float32
	top, bottom float32
	rowSpacing  float32
	colSpacing  float32
	step        float64
}

// x and y sanitize positions before they enter a Result.
func (f *frame) x(v float32) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return 0
	}
	return v
}

func (f *frame) y(v float32) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return f.bottom
	}
	return v
}

func (f *frame) pt(x, y float32) f32.Point {
	return f32.Pt(f.x(x), f.y(y))
}

// valueY maps a data value onto the vertical axis.
func (f *frame) valueY(v float64) float32 {
	return f.bottom - float32(v*float64(f.rowSpacing)/f.step)
}

// Layout computes the geometry of src drawn with cfg into a viewport of the
// given size. It returns ErrEmptyDataset when src has no items. The
// sub-computations run concurrently; ctx cancels them.
func Layout(ctx context.Context, src DataSource, cfg Config, viewport f32.Point) (*Result, error) {
	if src.ItemCount() <= 0 {
		return nil, ErrEmptyDataset
	}
	snap := takeSnapshot(src)

	r := &Result{
		Kind:     cfg.Kind,
		Viewport: viewport,
		Ticks:    snap.ticks,
		Points:   snap.points,
		Unit:     cfg.Unit,
	}
	r.RangeMin, r.RangeMax = valueRange(snap.ys)

	f := &frame{cfg: cfg, top: cfg.HeaderSpace}
	var side, gap, bottomSpace float32
	if cfg.ShowSideLabels {
		side, gap = cfg.SideSpace, cfg.LabelGap
	}
	if cfg.ShowBottomLabels {
		bottomSpace = cfg.BottomSpace
	}
	f.left = side + cfg.Padding/2
	r.GraphWidth = max(0, viewport.X-side-gap-cfg.Padding)
	f.right = f.left + r.GraphWidth
	f.bottom = max(f.top, viewport.Y-bottomSpace-cfg.DetailSpace)
	r.GraphHeight = f.bottom - f.top
	r.Plot = Rect{Min: f32.Pt(f.left, f.top), Max: f32.Pt(f.right, f.bottom)}

	f.rowSpacing = r.GraphHeight / float32(len(snap.ticks))
	f.colSpacing = r.GraphWidth / float32(len(snap.columns))
	f.step = snap.ticks[len(snap.ticks)-1] / float64(len(snap.ticks))
	r.RowSpacing, r.ColumnSpacing, r.Step = f.rowSpacing, f.colSpacing, f.step

	g, ctx := errgroup.WithContext(ctx)
	run := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}
	run(func() { r.Axes = f.axes() })
	run(func() { r.HorizontalGrid = f.horizontalGrid(snap) })
	run(func() { r.VerticalGrid = f.verticalGrid(snap) })
	run(func() { r.Header, r.SideLabels = f.header(), f.sideLabels(snap) })
	run(func() { r.BottomLabels = f.bottomLabels(snap) })
	run(func() {
		switch cfg.Kind {
		case KindBar:
			r.Bars, r.Targets = f.bars(snap)
		default:
			r.Path, r.Targets = f.path(snap)
		}
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return r, nil
}

// valueRange returns the finite bounds of values, widened when they are all
// equal so that the range is never empty.
func valueRange(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo, hi = min(lo, v), max(hi, v)
	}
	if lo > hi {
		return 0, 1
	}
	if lo == hi {
		if lo == 0 {
			return 0, 1
		}
		lo, hi = lo/1.01, lo/0.99
		if lo > hi {
			lo, hi = hi, lo
		}
	}
	return lo, hi
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (f *frame) axes() []Line {
	var lines []Line
	if f.cfg.ShowVerticalLine {
		lines = append(lines, Line{
			From:  f.pt(f.right, f.top),
			To:    f.pt(f.right, f.bottom),
			Width: f.cfg.GridLineWidth,
		})
	}
	if f.cfg.ShowHorizontalLine {
		lines = append(lines, Line{
			From:  f.pt(f.left, f.bottom),
			To:    f.pt(f.right, f.bottom),
			Width: f.cfg.GridLineWidth,
		})
	}
	return lines
}

func (f *frame) horizontalGrid(s snapshot) []Line {
	if !f.cfg.ShowHorizontalGrid {
		return nil
	}
	lines := make([]Line, len(s.ticks))
	for i := range s.ticks {
		y := f.bottom - f.rowSpacing*float32(i+1)
		lines[i] = Line{
			From:  f.pt(f.left, y),
			To:    f.pt(f.right, y),
			Width: f.cfg.GridLineWidth,
			Dash:  s.hdash[i],
		}
	}
	return lines
}

func (f *frame) verticalGrid(s snapshot) []Line {
	if !f.cfg.ShowVerticalGrid {
		return nil
	}
	lines := make([]Line, len(s.columns))
	for i := range s.columns {
		x := f.left + f.colSpacing*float32(i)
		lines[i] = Line{
			From:  f.pt(x, f.top),
			To:    f.pt(x, f.bottom),
			Width: f.cfg.GridLineWidth,
			Dash:  s.vdash[i],
		}
	}
	return lines
}

func (f *frame) header() Label {
	return Label{
		Role:  RoleHeader,
		Text:  f.cfg.Unit,
		Box:   Rect{Min: f.pt(f.left, 0), Max: f.pt(f.right, f.top)},
		Align: AlignStart,
	}
}

// sideLabels labels the baseline and every tick. Label i sits on the same
// height as horizontal grid line i-1.
func (f *frame) sideLabels(s snapshot) []Label {
	if !f.cfg.ShowSideLabels {
		return nil
	}
	values := append([]float64{0}, s.ticks...)
	labels := make([]Label, len(values))
	half := f.rowSpacing / 2
	gutterMin := f.cfg.Padding / 2
	gutterMax := gutterMin + f.cfg.SideSpace
	for i, v := range values {
		y := f.bottom - f.rowSpacing*float32(i)
		labels[i] = Label{
			Role:  RoleSide,
			Index: i,
			Text:  formatTick(v),
			Box:   Rect{Min: f.pt(gutterMin, y-half), Max: f.pt(gutterMax, y+half)},
			Align: AlignMiddle,
		}
	}
	return labels
}

func (f *frame) bottomLabels(s snapshot) []Label {
	if !f.cfg.ShowBottomLabels {
		return nil
	}
	labels := make([]Label, len(s.columns))
	for i, text := range s.columns {
		x := f.left + f.colSpacing*float32(i)
		labels[i] = Label{
			Role:  RoleBottom,
			Index: i,
			Text:  text,
			Box: Rect{
				Min: f.pt(x, f.bottom),
				Max: f.pt(x+f.colSpacing, f.bottom+f.cfg.BottomSpace),
			},
			Align: AlignMiddle,
		}
	}
	return labels
}

func (f *frame) bars(s snapshot) ([]Bar, []Target) {
	n := len(s.ys)
	width := (f.right - f.left) / float32(n)
	var inset float32
	if width > 2 {
		inset = 1
	}
	bars := make([]Bar, n)
	targets := make([]Target, n)
	for i, v := range s.ys {
		x := f.left + width*float32(i)
		top := f.y(f.valueY(v))
		bars[i] = Bar{
			Index: i,
			Rect: Rect{
				Min: f.pt(x+inset, min(top, f.bottom)),
				Max: f.pt(x+width-inset, max(top, f.bottom)),
			},
		}
		targets[i] = Target{
			Index:  i,
			X:      f.x(x),
			Marker: f.pt(x+width/2, top),
		}
	}
	return bars, targets
}

func (f *frame) path(s snapshot) (*Path, []Target) {
	n := len(s.ys)
	p := &Path{
		Points:       make([]f32.Point, n),
		Baseline:     f.bottom,
		Width:        f.cfg.LineWidth,
		MarkerRadius: f.cfg.PointRadius,
	}
	targets := make([]Target, n)
	spacing := (f.right - f.left) / float32(max(1, n-1))
	for i, v := range s.ys {
		pt := f.pt(f.left+spacing*float32(i), f.valueY(v))
		p.Points[i] = pt
		targets[i] = Target{Index: i, X: pt.X, Marker: pt}
	}
	if f.cfg.ShowPoints {
		p.Markers = append([]f32.Point(nil), p.Points...)
	}

	p.Segments = make([]PathSegment, 0, max(0, n-1))
	if f.cfg.Type != Curved {
		for _, pt := range p.Points[1:] {
			p.Segments = append(p.Segments, PathSegment{To: pt})
		}
		return p, targets
	}
	tol := f.cfg.BaselineTolerance
	for i, c := range curve.Solve(p.Points) {
		to := p.Points[i+1]
		c1, c2 := f.pt(c.First.X, c.First.Y), f.pt(c.Second.X, c.Second.Y)
		if to.Y+tol >= f.bottom || c1.Y > f.bottom+tol || c2.Y > f.bottom+tol {
			p.Segments = append(p.Segments, PathSegment{To: to})
			continue
		}
		p.Segments = append(p.Segments, PathSegment{Curved: true, Ctrl1: c1, Ctrl2: c2, To: to})
	}
	return p, targets
}
