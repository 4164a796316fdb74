package chart

import (
	"strconv"
)

// XValue is the horizontal value of a data point. It holds either a number
// or a piece of text.
type XValue struct {
	text    string
	num     float64
	numeric bool
}

// Number returns a numeric XValue.
func Number(f float64) XValue {
	return XValue{num: f, numeric: true}
}

// Text returns a textual XValue.
func Text(s string) XValue {
	return XValue{text: s}
}

// Float returns the numeric value and whether the XValue is numeric.
func (x XValue) Float() (float64, bool) {
	return x.num, x.numeric
}

func (x XValue) String() string {
	if x.numeric {
		return strconv.FormatFloat(x.num, 'f', -1, 64)
	}
	return x.text
}

// DataPoint is one sample of a chart.
type DataPoint struct {
	X XValue
	Y float64
}

// DataSource supplies the data to lay out. Indices run from 0 to
// ItemCount()-1 in display order.
type DataSource interface {
	ItemCount() int
	XValue(i int) XValue
	YValue(i int) float64
	// VerticalLineCount is the number of vertical grid columns, usually one
	// per category label. Values below one are treated as one.
	VerticalLineCount() int
	VerticalLabel(i int) string
}

// VerticalDasher is implemented by data sources that dash vertical grid
// lines. A false return means the line at i is solid.
type VerticalDasher interface {
	VerticalDashPattern(i int) (Dash, bool)
}

// HorizontalDasher is implemented by data sources that dash horizontal grid
// lines. i indexes the ticks of the vertical axis. A false return means the
// line is solid.
type HorizontalDasher interface {
	HorizontalDashPattern(i int) (Dash, bool)
}

// Series is an in-memory DataSource.
type Series struct {
	Points []DataPoint
	// Categories label the vertical grid columns. When empty, each point is
	// its own column labelled with its X value.
	Categories []string
	// VerticalDashes and HorizontalDashes optionally dash grid lines by index.
	VerticalDashes   map[int]Dash
	HorizontalDashes map[int]Dash
}

var (
	_ DataSource       = (*Series)(nil)
	_ VerticalDasher   = (*Series)(nil)
	_ HorizontalDasher = (*Series)(nil)
)

// NewSeries builds a Series from parallel x and y values. Extra values in the
// longer slice are ignored.
func NewSeries(xs []XValue, ys []float64) *Series {
	n := min(len(xs), len(ys))
	s := &Series{Points: make([]DataPoint, n)}
	for i := 0; i < n; i++ {
		s.Points[i] = DataPoint{X: xs[i], Y: ys[i]}
	}
	return s
}

func (s *Series) ItemCount() int {
	return len(s.Points)
}

func (s *Series) XValue(i int) XValue {
	return s.Points[i].X
}

func (s *Series) YValue(i int) float64 {
	return s.Points[i].Y
}

func (s *Series) VerticalLineCount() int {
	if len(s.Categories) > 0 {
		return len(s.Categories)
	}
	return len(s.Points)
}

func (s *Series) VerticalLabel(i int) string {
	if len(s.Categories) > 0 {
		return s.Categories[i]
	}
	return s.Points[i].X.String()
}

func (s *Series) VerticalDashPattern(i int) (Dash, bool) {
	d, ok := s.VerticalDashes[i]
	return d, ok
}

func (s *Series) HorizontalDashPattern(i int) (Dash, bool) {
	d, ok := s.HorizontalDashes[i]
	return d, ok
}
