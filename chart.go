package main

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"github.com/charmbracelet/log"
	"golang.org/x/exp/constraints"

	"git.sr.ht/~whereswaldon/scrubchart/backend"
	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

// ChartView draws the layouts produced by a backend.Renderer and lets the
// user scrub across them. Layouts are computed in Dp and scaled to pixels
// when drawn.
type ChartView struct {
	renderer *backend.Renderer
	logger   *log.Logger

	src chart.DataSource
	cfg chart.Config
	// viewport is the size in Dp of the last requested layout.
	viewport f32.Point
	dirty    bool

	result    *chart.Result
	scrub     chart.Scrubber
	indicator chart.ScrubEvent

	// OnSelect, if set, is invoked whenever scrubbing selects a new item.
	OnSelect func(index int, readout string)
}

func NewChartView(renderer *backend.Renderer, logger *log.Logger, cfg chart.Config) *ChartView {
	return &ChartView{
		renderer: renderer,
		logger:   logger,
		cfg:      cfg,
		scrub:    chart.Scrubber{KeepVisible: cfg.KeepIndicator},
	}
}

// SetSource replaces the data drawn by the view. The layout is recomputed on
// the next frame.
func (c *ChartView) SetSource(src chart.DataSource) {
	c.src = src
	c.dirty = true
}

// SetConfig replaces the chart options. The layout is recomputed on the next
// frame.
func (c *ChartView) SetConfig(cfg chart.Config) {
	c.cfg = cfg
	c.scrub.KeepVisible = cfg.KeepIndicator
	c.dirty = true
}

func (c *ChartView) Config() chart.Config {
	return c.cfg
}

// Result returns the layout currently on screen, if any.
func (c *ChartView) Result() *chart.Result {
	return c.result
}

// Update applies finished layouts and processes scrub gestures.
func (c *ChartView) Update(gtx C) {
	if res, changed := c.renderer.Drain(); changed {
		c.result = res
		c.indicator, _ = c.scrub.Restore(res)
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		x := e.Position.X / gtx.Metric.PxPerDp
		switch e.Kind {
		case pointer.Press:
			if se, ok := c.scrub.Press(x, c.result); ok {
				c.choose(se)
			}
		case pointer.Drag:
			if se, ok := c.scrub.Drag(x, c.result); ok {
				c.choose(se)
			}
		case pointer.Release, pointer.Cancel:
			c.indicator = c.scrub.Release()
		}
	}
}

func (c *ChartView) choose(se chart.ScrubEvent) {
	c.indicator = se
	if !se.Feedback {
		return
	}
	readout := c.result.Readout(se.Index)
	c.logger.Debug("selected", "index", se.Index, "readout", readout)
	if c.OnSelect != nil {
		c.OnSelect(se.Index, readout)
	}
}

func (c *ChartView) Layout(gtx C, th *material.Theme) D {
	c.Update(gtx)
	size := gtx.Constraints.Max
	scale := gtx.Metric.PxPerDp
	viewport := f32.Pt(float32(size.X)/scale, float32(size.Y)/scale)
	if c.src != nil && (c.dirty || viewport != c.viewport) {
		c.dirty = false
		c.viewport = viewport
		c.renderer.Reload(c.src, c.cfg, viewport)
		if c.src.ItemCount() == 0 {
			c.result = nil
			c.indicator, _ = c.scrub.Restore(nil)
		}
	}

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, c)
	if c.result == nil {
		return D{Size: size}
	}
	p := painter{gtx: gtx, th: th, scale: scale, style: c.cfg.Style}
	p.draw(c.result)
	if c.indicator.Visible {
		c.layoutIndicator(p, size)
	}
	return D{Size: size}
}

// layoutIndicator draws the scrub line, the selected marker and the readout
// bubble. The bubble sits beside the marker on whichever side has more room.
func (c *ChartView) layoutIndicator(p painter, size image.Point) {
	gtx := p.gtx
	r := c.result
	marker := c.indicator.Marker.Marker
	p.line(chart.Line{
		From:  f32.Pt(marker.X, r.Plot.Min.Y),
		To:    f32.Pt(marker.X, r.Plot.Max.Y),
		Width: 1,
		Dash:  c.cfg.IndicatorDash,
	}, p.style.Indicator)
	p.circle(marker, c.cfg.PointRadius, p.style.PointFill, p.style.Indicator)

	readout := r.Readout(c.indicator.Index)
	if readout == "" {
		return
	}
	gtx.Constraints.Min = image.Point{}
	dims, call := rec(gtx, func(gtx C) D {
		surface := component.Surface(p.th)
		surface.Fill = p.style.Readout
		return surface.Layout(gtx, func(gtx C) D {
			return layout.UniformInset(4).Layout(gtx, func(gtx C) D {
				l := material.Caption(p.th, readout)
				l.Color = p.style.ReadoutText
				l.MaxLines = 1
				return l.Layout(gtx)
			})
		})
	})
	gap := gtx.Dp(6)
	at := p.px(marker)
	xL, xR := int(floor(at.X))-gap, int(ceil(at.X))+gap
	pos := image.Point{}
	if xL > size.X-xR {
		pos.X = max(xL-dims.Size.X, 0)
	} else {
		pos.X = min(xR, size.X-dims.Size.X)
	}
	pos.Y = max(int(at.Y)-dims.Size.Y-gap, 0)
	defer op.Offset(pos).Push(gtx.Ops).Pop()
	call.Add(gtx.Ops)
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}

// painter draws the parts of a chart.Result, converting Dp coordinates to
// pixels.
type painter struct {
	gtx   C
	th    *material.Theme
	scale float32
	style chart.Style
}

func (p painter) px(pt f32.Point) f32.Point {
	return pt.Mul(p.scale)
}

func (p painter) draw(r *chart.Result) {
	for _, l := range r.HorizontalGrid {
		p.line(l, p.style.Grid)
	}
	for _, l := range r.VerticalGrid {
		p.line(l, p.style.Grid)
	}
	for _, b := range r.Bars {
		paint.FillShape(p.gtx.Ops, p.style.Bar, clip.Rect(p.rect(b.Rect)).Op())
	}
	if r.Path != nil {
		p.path(r)
	}
	for _, l := range r.Axes {
		p.line(l, p.style.Grid)
	}
	for _, l := range r.Labels() {
		p.label(l)
	}
}

func (p painter) rect(r chart.Rect) image.Rectangle {
	lo, hi := p.px(r.Min), p.px(r.Max)
	return image.Rect(
		int(math.Round(float64(lo.X))), int(math.Round(float64(lo.Y))),
		int(math.Round(float64(hi.X))), int(math.Round(float64(hi.Y))),
	)
}

// line strokes l, splitting it into dashes when it has a pattern.
func (p painter) line(l chart.Line, col color.NRGBA) {
	width := max(l.Width*p.scale, 1)
	for _, piece := range l.Dash.Split(l.From, l.To) {
		var path clip.Path
		path.Begin(p.gtx.Ops)
		path.MoveTo(p.px(piece[0]))
		path.LineTo(p.px(piece[1]))
		paint.FillShape(p.gtx.Ops, col, clip.Stroke{
			Path:  path.End(),
			Width: width,
		}.Op())
	}
}

func (p painter) trace(path *clip.Path, cp *chart.Path) {
	path.MoveTo(p.px(cp.Points[0]))
	for _, seg := range cp.Segments {
		if seg.Curved {
			path.CubeTo(p.px(seg.Ctrl1), p.px(seg.Ctrl2), p.px(seg.To))
		} else {
			path.LineTo(p.px(seg.To))
		}
	}
}

// path fills the area under the line with a vertical gradient, then strokes
// the line and its markers on top.
func (p painter) path(r *chart.Result) {
	cp := r.Path
	if len(cp.Points) == 0 {
		return
	}
	gtx := p.gtx
	first, last := cp.Points[0], cp.Points[len(cp.Points)-1]

	var fill clip.Path
	fill.Begin(gtx.Ops)
	p.trace(&fill, cp)
	fill.LineTo(p.px(f32.Pt(last.X, cp.Baseline)))
	fill.LineTo(p.px(f32.Pt(first.X, cp.Baseline)))
	fill.Close()
	stack := clip.Outline{Path: fill.End()}.Op().Push(gtx.Ops)
	paint.LinearGradientOp{
		Stop1:  p.px(f32.Pt(0, r.Plot.Min.Y)),
		Color1: p.style.FillTop,
		Stop2:  p.px(f32.Pt(0, cp.Baseline)),
		Color2: p.style.FillBottom,
	}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	stack.Pop()

	var stroke clip.Path
	stroke.Begin(gtx.Ops)
	p.trace(&stroke, cp)
	paint.FillShape(gtx.Ops, p.style.Line, clip.Stroke{
		Path:  stroke.End(),
		Width: cp.Width * p.scale,
	}.Op())

	for _, m := range cp.Markers {
		p.circle(m, cp.MarkerRadius, p.style.PointFill, p.style.PointBorder)
	}
}

// circle draws a filled disc of radius r (in Dp) with a one Dp border.
func (p painter) circle(center f32.Point, r float32, fill, border color.NRGBA) {
	c := p.px(center)
	outer := r * p.scale
	inner := max(outer-p.scale, 0)
	ellipse := func(rad float32) clip.Op {
		return clip.Ellipse{
			Min: image.Pt(int(c.X-rad), int(c.Y-rad)),
			Max: image.Pt(int(ceil(c.X+rad)), int(ceil(c.Y+rad))),
		}.Op(p.gtx.Ops)
	}
	paint.FillShape(p.gtx.Ops, border, ellipse(outer))
	paint.FillShape(p.gtx.Ops, fill, ellipse(inner))
}

func (p painter) label(l chart.Label) {
	if l.Text == "" {
		return
	}
	gtx := p.gtx
	box := p.rect(l.Box)
	if box.Dx() <= 0 || box.Dy() <= 0 {
		return
	}
	lbl := material.Caption(p.th, l.Text)
	lbl.MaxLines = 1
	lbl.Color = p.style.Labels
	if l.Role == chart.RoleHeader {
		lbl.Color = p.style.Header
	}
	dir := layout.Center
	switch l.Align {
	case chart.AlignStart:
		lbl.Alignment = text.Start
		dir = layout.W
	case chart.AlignEnd:
		lbl.Alignment = text.End
		dir = layout.E
	default:
		lbl.Alignment = text.Middle
	}
	defer op.Offset(box.Min).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Exact(box.Size())
	dir.Layout(gtx, func(gtx C) D {
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		return lbl.Layout(gtx)
	})
}
