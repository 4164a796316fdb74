package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"git.sr.ht/~whereswaldon/scrubchart/backend"
	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

func TestChartConfigs(t *testing.T) {
	configs, kind, err := chartConfigs(backend.Settings{
		Kind: "bar",
		Type: "curved",
		Unit: "W",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != chart.KindBar {
		t.Errorf("expected bar kind, got %v", kind)
	}
	for _, k := range []chart.Kind{chart.KindLine, chart.KindBar} {
		cfg, ok := configs[k]
		if !ok {
			t.Fatalf("missing config for %v", k)
		}
		if cfg.Kind != k {
			t.Errorf("config for %v has kind %v", k, cfg.Kind)
		}
		if cfg.Unit != "W" || cfg.Type != chart.Curved {
			t.Errorf("%v: settings not applied: unit %q type %v", k, cfg.Unit, cfg.Type)
		}
	}
	if configs[chart.KindBar].Padding == configs[chart.KindLine].Padding {
		t.Errorf("expected kind specific defaults to differ")
	}

	if _, _, err := chartConfigs(backend.Settings{Kind: "pie"}); err == nil {
		t.Errorf("expected error for unknown kind")
	}
}

func TestRenderStatus(t *testing.T) {
	s := &renderStatus{logger: log.New(io.Discard)}
	s.RenderStarted(1)
	s.RenderStarted(2)
	s.RenderFinished(2, &chart.Result{Points: make([]chart.DataPoint, 3)}, false)
	s.RenderFinished(1, &chart.Result{Points: make([]chart.DataPoint, 7)}, true)
	if s.shown != 2 || s.items != 3 {
		t.Errorf("expected generation 2 with 3 items shown, got %d with %d", s.shown, s.items)
	}

	s.RenderStarted(3)
	s.RenderFailed(3, fmt.Errorf("wrapped: %w", chart.ErrEmptyDataset))
	if s.err != nil || s.items != 0 {
		t.Errorf("empty data should clear the chart without an error, got %v", s.err)
	}
	s.RenderStarted(4)
	s.RenderFailed(4, context.Canceled)
	if s.err != nil {
		t.Errorf("cancellation should not be reported, got %v", s.err)
	}
	boom := errors.New("boom")
	s.RenderStarted(5)
	s.RenderFailed(5, boom)
	if !errors.Is(s.err, boom) {
		t.Errorf("expected %v, got %v", boom, s.err)
	}
}

func TestContrast(t *testing.T) {
	for _, tc := range []struct {
		in     color.NRGBA
		expect color.NRGBA
	}{
		{in: color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0xff}, expect: white},
		{in: color.NRGBA{R: 0xf0, G: 0xf0, B: 0x80, A: 0xff}, expect: black},
		{in: color.NRGBA{}, expect: black},
	} {
		if got := contrast(tc.in); got != tc.expect {
			t.Errorf("contrast(%v): expected %v, got %v", tc.in, tc.expect, got)
		}
	}
}
