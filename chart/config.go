package chart

import (
	"image/color"
)

// Kind selects the geometry drawn inside the plot.
type Kind uint8

const (
	KindLine Kind = iota
	KindBar
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindBar:
		return "bar"
	default:
		return "unknown"
	}
}

// ParseKind converts the output of Kind.String back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "line":
		return KindLine, true
	case "bar":
		return KindBar, true
	}
	return 0, false
}

// LineType selects how consecutive points of a line chart are joined.
type LineType uint8

const (
	Linear LineType = iota
	Curved
)

func (t LineType) String() string {
	switch t {
	case Linear:
		return "linear"
	case Curved:
		return "curved"
	default:
		return "unknown"
	}
}

// ParseLineType converts the output of LineType.String back to a LineType.
func ParseLineType(s string) (LineType, bool) {
	switch s {
	case "linear":
		return Linear, true
	case "curved":
		return Curved, true
	}
	return 0, false
}

// Style holds the colours used to draw a Result. The layout engine does not
// read it.
type Style struct {
	Grid, Labels, Header   color.NRGBA
	Line, Bar              color.NRGBA
	FillTop, FillBottom    color.NRGBA
	Indicator              color.NRGBA
	PointFill, PointBorder color.NRGBA
	Readout, ReadoutText   color.NRGBA
}

// Config holds every option recognised by Layout. All lengths are in the
// viewport's units.
type Config struct {
	Kind Kind
	// Type applies to line charts only.
	Type LineType

	// SideSpace is the gutter reserved for the vertical axis labels.
	SideSpace float32
	// BottomSpace is the gutter reserved for the category labels.
	BottomSpace float32
	// HeaderSpace is reserved above the plot for the header and readout.
	HeaderSpace float32
	// Padding is split evenly to the left and right of the plot.
	Padding float32
	// LabelGap separates the side labels from the plot.
	LabelGap float32
	// DetailSpace is reserved below the category labels.
	DetailSpace float32

	ShowVerticalGrid   bool
	ShowHorizontalGrid bool
	ShowVerticalLine   bool
	ShowHorizontalLine bool
	ShowSideLabels     bool
	ShowBottomLabels   bool
	// ShowPoints marks each point of a line chart.
	ShowPoints bool
	// KeepIndicator leaves the scrub indicator visible after release.
	KeepIndicator bool

	GridLineWidth float32
	LineWidth     float32
	PointRadius   float32
	// BaselineTolerance is how close to the baseline a curved segment may end,
	// or how far below it a control point may reach, before the segment is
	// drawn straight.
	BaselineTolerance float32
	IndicatorDash     Dash
	// Unit is shown in the header and after readout values.
	Unit string

	Style Style
}

// DefaultConfig returns the default configuration for a chart kind.
func DefaultConfig(kind Kind) Config {
	cfg := Config{
		Kind:               kind,
		Type:               Linear,
		SideSpace:          25,
		BottomSpace:        25,
		HeaderSpace:        25,
		LabelGap:           10,
		ShowVerticalGrid:   true,
		ShowHorizontalGrid: true,
		ShowVerticalLine:   true,
		ShowHorizontalLine: true,
		ShowSideLabels:     true,
		ShowBottomLabels:   true,
		ShowPoints:         true,
		GridLineWidth:      0.3,
		LineWidth:          3,
		PointRadius:        4,
		BaselineTolerance:  10,
		IndicatorDash:      Dash{7, 5},
		Unit:               "V",
		Style: Style{
			Grid:        color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
			Labels:      color.NRGBA{A: 0xff},
			Header:      color.NRGBA{R: 0xff, A: 0xff},
			Line:        color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0xff},
			Bar:         color.NRGBA{R: 0x80, B: 0x80, A: 0xff},
			FillTop:     color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0x90},
			FillBottom:  color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x00},
			Indicator:   color.NRGBA{R: 0xff, A: 0xff},
			PointFill:   color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
			PointBorder: color.NRGBA{R: 0xff, A: 0xff},
			Readout:     color.NRGBA{G: 0xa0, A: 0xff},
			ReadoutText: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		},
	}
	if kind == KindBar {
		cfg.Padding = 16
		cfg.DetailSpace = 50
		cfg.ShowPoints = false
		cfg.Unit = "kWh"
	}
	return cfg
}
