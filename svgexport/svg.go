// Package svgexport renders chart layouts as standalone SVG documents.
package svgexport

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/lucasb-eyer/go-colorful"

	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

// FontSize is the label size in viewport units.
const FontSize = 11

const fillGradientID = "scrubchart-fill"

// Write renders r as an SVG document the size of its viewport.
func Write(w io.Writer, r *chart.Result, style chart.Style) error {
	if r == nil {
		return errors.New("svgexport: nil layout")
	}
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(
		int(math.Ceil(float64(r.Viewport.X))),
		int(math.Ceil(float64(r.Viewport.Y))),
		fmt.Sprintf(`font-size="%dpx" font-family="Go,Helvetica,Arial,sans-serif"`, FontSize),
	)
	canvas.Title(r.Header.Text)

	for _, l := range r.HorizontalGrid {
		line(canvas, l, style.Grid)
	}
	for _, l := range r.VerticalGrid {
		line(canvas, l, style.Grid)
	}
	for _, b := range r.Bars {
		canvas.Path(rectPath(b.Rect), cssPaint("fill", style.Bar))
	}
	if r.Path != nil && len(r.Path.Points) > 0 {
		linePath(canvas, r, style)
	}
	for _, l := range r.Axes {
		line(canvas, l, style.Grid)
	}
	for _, l := range r.Labels() {
		label(canvas, l, style)
	}
	canvas.End()
	return ew.err
}

// errWriter keeps the first write error, since svgo discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	if err != nil {
		e.err = fmt.Errorf("svgexport: failed writing: %w", err)
	}
	return n, err
}

func appendPoint(path []byte, cmd byte, pts ...[2]float32) []byte {
	path = append(path, cmd)
	for i, p := range pts {
		if i > 0 {
			path = append(path, ',')
		}
		path = strconv.AppendFloat(path, float64(p[0]), 'g', 6, 32)
		path = append(path, ' ')
		path = strconv.AppendFloat(path, float64(p[1]), 'g', 6, 32)
	}
	return path
}

func line(canvas *svg.SVG, l chart.Line, c color.NRGBA) {
	var path []byte
	path = appendPoint(path, 'M', [2]float32{l.From.X, l.From.Y})
	path = appendPoint(path, 'L', [2]float32{l.To.X, l.To.Y})
	style := cssPaint("stroke", c) + ";fill:none;stroke-width:" + fmtFloat(l.Width)
	if l.Dash.Valid() {
		dashes := make([]string, len(l.Dash))
		for i, d := range l.Dash {
			dashes[i] = fmtFloat(d)
		}
		style += ";stroke-dasharray:" + strings.Join(dashes, ",")
	}
	canvas.Path(string(path), style)
}

func rectPath(r chart.Rect) string {
	var path []byte
	path = appendPoint(path, 'M', [2]float32{r.Min.X, r.Min.Y})
	path = appendPoint(path, 'L', [2]float32{r.Max.X, r.Min.Y})
	path = appendPoint(path, 'L', [2]float32{r.Max.X, r.Max.Y})
	path = appendPoint(path, 'L', [2]float32{r.Min.X, r.Max.Y})
	return string(append(path, 'Z'))
}

// strokePath traces the line of p. Curved segments become cubic Bézier
// commands.
func strokePath(p *chart.Path) []byte {
	var path []byte
	path = appendPoint(path, 'M', [2]float32{p.Points[0].X, p.Points[0].Y})
	for _, seg := range p.Segments {
		to := [2]float32{seg.To.X, seg.To.Y}
		if seg.Curved {
			path = appendPoint(path, 'C',
				[2]float32{seg.Ctrl1.X, seg.Ctrl1.Y},
				[2]float32{seg.Ctrl2.X, seg.Ctrl2.Y},
				to,
			)
		} else {
			path = appendPoint(path, 'L', to)
		}
	}
	return path
}

func linePath(canvas *svg.SVG, r *chart.Result, style chart.Style) {
	p := r.Path
	first, last := p.Points[0], p.Points[len(p.Points)-1]

	canvas.Def()
	canvas.LinearGradient(fillGradientID, 0, 0, 0, 100, []svg.Offcolor{
		offcolor(0, style.FillTop),
		offcolor(100, style.FillBottom),
	})
	canvas.DefEnd()

	fill := strokePath(p)
	fill = appendPoint(fill, 'L', [2]float32{last.X, p.Baseline})
	fill = appendPoint(fill, 'L', [2]float32{first.X, p.Baseline})
	fill = append(fill, 'Z')
	canvas.Path(string(fill), "stroke:none;fill:url(#"+fillGradientID+")")

	canvas.Path(string(strokePath(p)), cssPaint("stroke", style.Line)+";fill:none;stroke-linejoin:round;stroke-width:"+fmtFloat(p.Width))

	radius := int(math.Round(float64(p.MarkerRadius)))
	for _, m := range p.Markers {
		canvas.Circle(
			int(math.Round(float64(m.X))),
			int(math.Round(float64(m.Y))),
			radius,
			cssPaint("fill", style.PointFill)+";"+cssPaint("stroke", style.PointBorder)+";stroke-width:1",
		)
	}
}

func label(canvas *svg.SVG, l chart.Label, style chart.Style) {
	if l.Text == "" {
		return
	}
	c := style.Labels
	if l.Role == chart.RoleHeader {
		c = style.Header
	}
	var (
		x      float32
		anchor string
	)
	switch l.Align {
	case chart.AlignStart:
		x, anchor = l.Box.Min.X, "start"
	case chart.AlignEnd:
		x, anchor = l.Box.Max.X, "end"
	default:
		x, anchor = l.Box.Center().X, "middle"
	}
	y := l.Box.Center().Y
	canvas.Text(
		int(math.Round(float64(x))),
		int(math.Round(float64(y))),
		l.Text,
		`text-anchor="`+anchor+`"`,
		`dy=".35em"`,
		`fill="`+hex(c)+`"`,
	)
}

func offcolor(offset uint8, c color.NRGBA) svg.Offcolor {
	return svg.Offcolor{
		Offset:  offset,
		Color:   hex(c),
		Opacity: float64(c.A) / 255,
	}
}

func hex(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// cssPaint returns a CSS fragment setting prop to c.
func cssPaint(prop string, c color.NRGBA) string {
	if c.A == 0 {
		return prop + ":none"
	}
	css := prop + ":" + hex(c)
	if c.A != 0xff {
		css += ";" + prop + "-opacity:" + strconv.FormatFloat(float64(c.A)/255, 'g', 3, 64)
	}
	return css
}

func fmtFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', 6, 32)
}
