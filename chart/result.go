package chart

import (
	"fmt"
	"strconv"

	"gioui.org/f32"
)

// Rect is an axis-aligned rectangle in viewport coordinates.
type Rect struct {
	Min, Max f32.Point
}

func (r Rect) Dx() float32 { return r.Max.X - r.Min.X }
func (r Rect) Dy() float32 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint of r.
func (r Rect) Center() f32.Point {
	return f32.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

// Line is a straight stroke.
type Line struct {
	From, To f32.Point
	Width    float32
	// Dash is empty for a solid line.
	Dash Dash
}

// LabelRole identifies which part of the chart a label annotates.
type LabelRole uint8

const (
	RoleHeader LabelRole = iota
	RoleSide
	RoleBottom
)

func (r LabelRole) String() string {
	switch r {
	case RoleHeader:
		return "header"
	case RoleSide:
		return "side"
	case RoleBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Alignment is the horizontal alignment of a label within its box.
type Alignment uint8

const (
	AlignStart Alignment = iota
	AlignMiddle
	AlignEnd
)

// Label is a piece of text anchored to a box. Role and Index together give
// the label a stable identity across layouts.
type Label struct {
	Role  LabelRole
	Index int
	Text  string
	Box   Rect
	Align Alignment
}

// Bar is the rectangle drawn for one item of a bar chart.
type Bar struct {
	Index int
	Rect  Rect
}

// PathSegment joins the previous point of a Path to To. Ctrl1 and Ctrl2 are
// only meaningful when Curved is set.
type PathSegment struct {
	Curved       bool
	Ctrl1, Ctrl2 f32.Point
	To           f32.Point
}

// Path is the geometry of a line chart. The stroke starts at Points[0] and
// follows Segments. The fill area is the stroke closed down to Baseline.
type Path struct {
	Points   []f32.Point
	Segments []PathSegment
	Baseline float32
	Width    float32
	// Markers holds the centres of the point markers, if any are shown.
	Markers      []f32.Point
	MarkerRadius float32
}

// Target is the scrub hit-target of one item.
type Target struct {
	Index int
	// X is compared against the pointer position.
	X float32
	// Marker is where the indicator and readout attach.
	Marker f32.Point
}

// Result is the complete geometry of one layout pass. It does not refer back
// to the DataSource it was computed from.
type Result struct {
	Kind     Kind
	Viewport f32.Point
	// Plot is the area inside the axes.
	Plot        Rect
	GraphWidth  float32
	GraphHeight float32

	Ticks []float64
	// RangeMin and RangeMax bound the data, widened when all values are equal.
	// They are informational: the vertical scale comes from Ticks.
	RangeMin, RangeMax float64
	RowSpacing         float32
	ColumnSpacing      float32
	// Step is the data value represented by one RowSpacing.
	Step float64

	Axes           []Line
	HorizontalGrid []Line
	VerticalGrid   []Line

	Header       Label
	SideLabels   []Label
	BottomLabels []Label

	// Bars is set for bar charts and Path for line charts.
	Bars []Bar
	Path *Path

	Targets []Target
	// Points is the data the layout was computed from.
	Points []DataPoint
	Unit   string
}

// Labels returns every label of r, header first.
func (r *Result) Labels() []Label {
	labels := make([]Label, 0, 1+len(r.SideLabels)+len(r.BottomLabels))
	labels = append(labels, r.Header)
	labels = append(labels, r.SideLabels...)
	labels = append(labels, r.BottomLabels...)
	return labels
}

// Readout formats the value of item i for display next to the indicator.
func (r *Result) Readout(i int) string {
	if i < 0 || i >= len(r.Points) {
		return ""
	}
	p := r.Points[i]
	y := strconv.FormatFloat(p.Y, 'f', -1, 64)
	if r.Unit == "" {
		return fmt.Sprintf("%s: %s", p.X, y)
	}
	return fmt.Sprintf("%s: %s %s", p.X, y, r.Unit)
}
