package backend

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"gioui.org/f32"
	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

type recordingDelegate struct {
	events []string
}

func (d *recordingDelegate) RenderStarted(gen uint64) {
	d.events = append(d.events, fmt.Sprintf("started %d", gen))
}

func (d *recordingDelegate) RenderFinished(gen uint64, r *chart.Result, stale bool) {
	d.events = append(d.events, fmt.Sprintf("finished %d stale=%v", gen, stale))
}

func (d *recordingDelegate) RenderFailed(gen uint64, err error) {
	d.events = append(d.events, fmt.Sprintf("failed %d: %v", gen, err))
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestRenderer(t *testing.T) (*Renderer, *recordingDelegate, chan struct{}) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	delegate := &recordingDelegate{}
	invalidated := make(chan struct{}, 16)
	r := NewRenderer(ctx, quietLogger(), delegate, func() {
		invalidated <- struct{}{}
	})
	return r, delegate, invalidated
}

func waitInvalidate(t *testing.T, invalidated chan struct{}) {
	t.Helper()
	select {
	case <-invalidated:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for render")
	}
}

func TestRendererEmptyFailsSynchronously(t *testing.T) {
	r, delegate, _ := newTestRenderer(t)
	gen := r.Reload(&chart.Series{}, chart.DefaultConfig(chart.KindLine), f32.Pt(300, 200))
	expect := []string{
		fmt.Sprintf("started %d", gen),
		fmt.Sprintf("failed %d: %v", gen, chart.ErrEmptyDataset),
	}
	if diff := cmp.Diff(expect, delegate.events); diff != "" {
		t.Errorf("unexpected delegate calls (-want +got):\n%s", diff)
	}
	if r.Busy() {
		t.Errorf("expected no render in flight")
	}
	if res, changed := r.Drain(); res != nil || changed {
		t.Errorf("expected nothing applied, got %v, %v", res, changed)
	}
}

func TestRendererFinishes(t *testing.T) {
	r, delegate, invalidated := newTestRenderer(t)
	gen := r.Reload(SampleSeries(chart.KindBar), chart.DefaultConfig(chart.KindBar), f32.Pt(400, 300))
	waitInvalidate(t, invalidated)
	res, changed := r.Drain()
	if !changed || res == nil {
		t.Fatalf("expected a new result")
	}
	if res != r.Current() {
		t.Errorf("expected drained result to be current")
	}
	if len(res.Bars) != len(dailyProduction) {
		t.Errorf("expected %d bars, got %d", len(dailyProduction), len(res.Bars))
	}
	expect := []string{
		fmt.Sprintf("started %d", gen),
		fmt.Sprintf("finished %d stale=false", gen),
	}
	if diff := cmp.Diff(expect, delegate.events); diff != "" {
		t.Errorf("unexpected delegate calls (-want +got):\n%s", diff)
	}
	if _, changed := r.Drain(); changed {
		t.Errorf("expected second drain to change nothing")
	}
}

func TestRendererDropsStaleResults(t *testing.T) {
	r, delegate, _ := newTestRenderer(t)
	older := &chart.Result{Unit: "older"}
	newer := &chart.Result{Unit: "newer"}
	// The newer render completes first.
	r.finish(completion{gen: 2, result: newer})
	r.finish(completion{gen: 1, result: older})
	r.finish(completion{gen: 3, err: context.Canceled})
	res, changed := r.Drain()
	if !changed || res != newer {
		t.Errorf("expected newer result applied, got %v", res)
	}
	expect := []string{
		"finished 2 stale=false",
		"finished 1 stale=true",
		fmt.Sprintf("failed 3: %v", context.Canceled),
	}
	if diff := cmp.Diff(expect, delegate.events); diff != "" {
		t.Errorf("unexpected delegate calls (-want +got):\n%s", diff)
	}
}

func TestRendererOneCallbackPerReload(t *testing.T) {
	r, delegate, invalidated := newTestRenderer(t)
	const reloads = 8
	for i := 0; i < reloads; i++ {
		src := SampleSeries(chart.KindLine)
		r.Reload(src, chart.DefaultConfig(chart.KindLine), f32.Pt(float32(200+i*10), 200))
	}
	for i := 0; i < reloads; i++ {
		waitInvalidate(t, invalidated)
	}
	res, _ := r.Drain()
	if res == nil {
		t.Fatalf("expected a result")
	}
	if res.Viewport.X != 270 {
		t.Errorf("expected the last reload to win, got viewport %v", res.Viewport)
	}
	started, ended := 0, 0
	for _, ev := range delegate.events {
		var gen uint64
		if _, err := fmt.Sscanf(ev, "started %d", &gen); err == nil {
			started++
		} else {
			ended++
		}
	}
	if started != reloads || ended != reloads {
		t.Errorf("expected %d starts and ends, got %d and %d", reloads, started, ended)
	}
}

func TestRendererCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	delegate := &recordingDelegate{}
	invalidated := make(chan struct{}, 1)
	r := NewRenderer(ctx, quietLogger(), delegate, func() { invalidated <- struct{}{} })
	r.Reload(SampleSeries(chart.KindLine), chart.DefaultConfig(chart.KindLine), f32.Pt(300, 200))
	waitInvalidate(t, invalidated)
	if res, changed := r.Drain(); res != nil || changed {
		t.Errorf("expected cancelled render not to apply")
	}
	last := delegate.events[len(delegate.events)-1]
	if last != fmt.Sprintf("failed 1: %v", context.Canceled) {
		t.Errorf("unexpected final delegate call %q", last)
	}
}

func TestRendererEmptyClearsOlderResults(t *testing.T) {
	r, delegate, invalidated := newTestRenderer(t)
	r.Reload(SampleSeries(chart.KindLine), chart.DefaultConfig(chart.KindLine), f32.Pt(300, 200))
	r.Reload(&chart.Series{}, chart.DefaultConfig(chart.KindLine), f32.Pt(300, 200))
	waitInvalidate(t, invalidated)
	if res, changed := r.Drain(); res != nil || changed {
		t.Errorf("expected layout older than the empty source to be dropped")
	}
	expect := []string{
		"started 1",
		"started 2",
		fmt.Sprintf("failed 2: %v", chart.ErrEmptyDataset),
		"finished 1 stale=true",
	}
	if diff := cmp.Diff(expect, delegate.events); diff != "" {
		t.Errorf("unexpected delegate calls (-want +got):\n%s", diff)
	}
}
