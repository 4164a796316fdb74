package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/charmbracelet/log"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~whereswaldon/scrubchart/backend"
	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var openIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.FileFolderOpen)
	return icon
}()

var sampleIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.EditorInsertChart)
	return icon
}()

// renderStatus records the outcome of the most recent renders for display.
// It is called on the UI goroutine.
type renderStatus struct {
	logger  *log.Logger
	started uint64
	shown   uint64
	items   int
	err     error
}

func (s *renderStatus) RenderStarted(gen uint64) {
	s.started = gen
}

func (s *renderStatus) RenderFinished(gen uint64, r *chart.Result, stale bool) {
	if stale {
		return
	}
	s.shown = gen
	s.items = len(r.Points)
	s.err = nil
}

func (s *renderStatus) RenderFailed(gen uint64, err error) {
	if errors.Is(err, chart.ErrEmptyDataset) || errors.Is(err, context.Canceled) {
		s.items = 0
		return
	}
	s.logger.Error("render failed", "gen", gen, "err", err)
	s.err = err
}

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws     backend.WindowState
	expl   *explorer.Explorer
	status *renderStatus
	logger *log.Logger

	// configs holds the configured options for each chart kind.
	configs map[chart.Kind]chart.Config
	view    *ChartView
	// sample is set while the built-in data is shown instead of a file.
	sample bool

	kind      widget.Enum
	curved    widget.Bool
	keep      widget.Bool
	openBtn   widget.Clickable
	sampleBtn widget.Clickable
	// startOpen and startSample are the start screen's copies of the
	// toolbar buttons.
	startOpen   widget.Clickable
	startSample widget.Clickable
	selected    string
	loadErr     string

	th        *material.Theme
	snapshots *stream.Stream[backend.Snapshot]
	snapshot  backend.Snapshot
}

func NewUI(ws backend.WindowState, expl *explorer.Explorer, status *renderStatus, configs map[chart.Kind]chart.Config, kind chart.Kind) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	cfg := configs[kind]
	ui := &UI{
		ws:        ws,
		expl:      expl,
		status:    status,
		logger:    ws.Logger,
		configs:   configs,
		th:        th,
		kind:      widget.Enum{Value: kind.String()},
		curved:    widget.Bool{Value: cfg.Type == chart.Curved},
		keep:      widget.Bool{Value: cfg.KeepIndicator},
		snapshots: stream.New(ws.Controller, ws.Datasource.Stream),
	}
	ui.view = NewChartView(ws.Renderer, ws.Logger, cfg)
	ui.view.OnSelect = func(index int, readout string) {
		ui.selected = readout
	}
	ui.applyConfig()
	return ui
}

// ShowSample replaces the chart data with the built-in series for the
// current chart kind.
func (ui *UI) ShowSample() {
	ui.sample = true
	ui.loadErr = ""
	ui.view.SetSource(backend.SampleSeries(ui.currentKind()))
}

func (ui *UI) currentKind() chart.Kind {
	kind, _ := chart.ParseKind(ui.kind.Value)
	return kind
}

// applyConfig pushes the control state into the chart view.
func (ui *UI) applyConfig() {
	kind := ui.currentKind()
	cfg := ui.configs[kind]
	cfg.Type = chart.Linear
	if ui.curved.Value {
		cfg.Type = chart.Curved
	}
	cfg.KeepIndicator = ui.keep.Value
	ui.view.SetConfig(cfg)
	ui.th.Palette = palette(cfg.Style, kind)
}

// Update the state of the UI from user input and the datasource.
func (ui *UI) Update(gtx C) {
	if snap, ok := ui.snapshots.ReadNew(gtx); ok {
		ui.snapshot = snap
		if snap.Err != nil {
			ui.loadErr = snap.Err.Error()
		} else if snap.Series != nil {
			ui.sample = false
			ui.loadErr = ""
			ui.view.SetSource(snap.Series)
		}
	}
	configChanged := false
	if ui.kind.Update(gtx) {
		configChanged = true
		if ui.sample {
			ui.view.SetSource(backend.SampleSeries(ui.currentKind()))
		}
	}
	if ui.curved.Update(gtx) {
		configChanged = true
	}
	if ui.keep.Update(gtx) {
		configChanged = true
	}
	if configChanged {
		ui.selected = ""
		ui.applyConfig()
	}
	if ui.openBtn.Clicked(gtx) || ui.startOpen.Clicked(gtx) {
		go func() {
			if err := ui.ws.Datasource.LoadFromFile(ui.expl); err != nil {
				ui.logger.Warn("could not open file", "err", err)
			}
		}()
	}
	if ui.sampleBtn.Clicked(gtx) || ui.startSample.Clicked(gtx) {
		ui.ShowSample()
	}
}

type TabStyle struct {
	state  *widget.Enum
	label  material.LabelStyle
	border widget.Border
	inset  layout.Inset
	value  string
	fill   color.NRGBA
}

func Tab(th *material.Theme, state *widget.Enum, value, display string) TabStyle {
	selected := state.Value == value
	ts := TabStyle{
		state: state,
		label: material.Body1(th, display),
		inset: layout.UniformInset(2),
		border: widget.Border{
			Width: 2,
			Color: th.ContrastBg,
		},
		value: value,
	}
	ts.label.Alignment = text.Middle
	if selected {
		ts.label.Color = th.ContrastFg
		ts.fill = th.ContrastBg
	}
	return ts
}

func (t TabStyle) Layout(gtx C) D {
	return t.inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return t.border.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return t.inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return t.state.Layout(gtx, t.value, func(gtx layout.Context) layout.Dimensions {
					return layout.Background{}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						paint.FillShape(gtx.Ops, t.fill, clip.Rect{Max: gtx.Constraints.Min}.Op())
						return D{Size: gtx.Constraints.Min}
					}, t.label.Layout)
				})
			})
		})
	})
}

func (ui *UI) layoutToolbar(gtx C) D {
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return material.IconButton(ui.th, &ui.openBtn, openIcon, "Open CSV file").Layout(gtx)
		}),
		layout.Rigid(layout.Spacer{Width: 4}.Layout),
		layout.Rigid(func(gtx C) D {
			return material.IconButton(ui.th, &ui.sampleBtn, sampleIcon, "Show sample data").Layout(gtx)
		}),
		layout.Rigid(layout.Spacer{Width: 8}.Layout),
		layout.Rigid(func(gtx C) D {
			if ui.currentKind() != chart.KindLine {
				gtx = gtx.Disabled()
			}
			return material.Switch(ui.th, &ui.curved, "Curved line").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			return material.Body2(ui.th, "Curved").Layout(gtx)
		}),
		layout.Rigid(layout.Spacer{Width: 8}.Layout),
		layout.Rigid(material.CheckBox(ui.th, &ui.keep, "Keep indicator").Layout),
		layout.Flexed(1, func(gtx C) D {
			l := material.Body2(ui.th, ui.statusText())
			l.Alignment = text.End
			l.MaxLines = 1
			l.Color = muted(ui.th.Fg)
			return l.Layout(gtx)
		}),
	)
}

func (ui *UI) statusText() string {
	source := "sample data"
	if !ui.sample && ui.snapshot.Path != "" {
		source = filepath.Base(ui.snapshot.Path)
		if !ui.snapshot.Done {
			source += " (following)"
		}
	}
	status := fmt.Sprintf("%s, %d points", source, ui.status.items)
	if ui.status.started != ui.status.shown {
		status += ", rendering"
	}
	if ui.selected != "" {
		status = ui.selected + " | " + status
	}
	return status
}

func (ui *UI) layoutMainArea(gtx C) D {
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{}.Layout(gtx,
				layout.Flexed(1, Tab(ui.th, &ui.kind, chart.KindLine.String(), "Line").Layout),
				layout.Flexed(1, Tab(ui.th, &ui.kind, chart.KindBar.String(), "Bar").Layout),
			)
		}),
		layout.Rigid(func(gtx C) D {
			return layout.UniformInset(4).Layout(gtx, ui.layoutToolbar)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			msg := ui.loadErr
			if msg == "" && ui.status.err != nil {
				msg = ui.status.err.Error()
			}
			if msg == "" {
				return D{}
			}
			l := material.Body1(ui.th, msg)
			l.Color = errorColor
			return l.Layout(gtx)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			if ui.view.Result() == nil {
				return ui.layoutStartScreen(gtx)
			}
			return ui.view.Layout(gtx, ui.th)
		}),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	// The view must keep laying out so that a pending source is rendered.
	ui.view.Layout(gtx, ui.th)
	msg := "No data yet."
	if ui.snapshot.Path != "" && !ui.snapshot.Done {
		msg = "Waiting for data from " + filepath.Base(ui.snapshot.Path) + "."
	}
	l := material.Body1(ui.th, msg)
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min = image.Point{}
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Button(ui.th, &ui.startOpen, "Open CSV File").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Button(ui.th, &ui.startSample, "Show Sample Data").Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	return ui.layoutMainArea(gtx)
}
