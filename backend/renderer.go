package backend

import (
	"context"
	"sync"

	"gioui.org/f32"
	"github.com/charmbracelet/log"

	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

// Delegate observes the renders started by a Renderer. For each reload,
// RenderStarted is followed by exactly one of RenderFinished or RenderFailed.
// Every method is called on the goroutine that calls Reload and Drain.
type Delegate interface {
	RenderStarted(gen uint64)
	// RenderFinished reports a computed layout. stale is set when a newer
	// layout had already been applied, in which case r is discarded.
	RenderFinished(gen uint64, r *chart.Result, stale bool)
	RenderFailed(gen uint64, err error)
}

type completion struct {
	gen    uint64
	result *chart.Result
	err    error
}

// Renderer computes chart layouts off the UI goroutine and hands them back
// in generation order.
type Renderer struct {
	ctx        context.Context
	logger     *log.Logger
	delegate   Delegate
	invalidate func()

	lock     sync.Mutex
	next     uint64
	inFlight int
	done     []completion

	// applied and current are only touched on the goroutine calling Reload
	// and Drain.
	applied uint64
	current *chart.Result
}

// NewRenderer returns a Renderer whose layouts are cancelled with ctx.
// invalidate is called from the worker whenever a completion is queued; it
// is usually the window's Invalidate method. delegate may be nil.
func NewRenderer(ctx context.Context, logger *log.Logger, delegate Delegate, invalidate func()) *Renderer {
	if invalidate == nil {
		invalidate = func() {}
	}
	return &Renderer{
		ctx:        ctx,
		logger:     logger,
		delegate:   delegate,
		invalidate: invalidate,
	}
}

// Reload starts laying out src and returns the generation of the new render.
// An empty data source fails immediately with chart.ErrEmptyDataset and
// clears the current result.
func (r *Renderer) Reload(src chart.DataSource, cfg chart.Config, viewport f32.Point) uint64 {
	r.lock.Lock()
	r.next++
	gen := r.next
	r.lock.Unlock()

	if r.delegate != nil {
		r.delegate.RenderStarted(gen)
	}
	if src == nil || src.ItemCount() <= 0 {
		// Nothing is drawn for an empty source, so older layouts still in
		// flight must not be applied over it.
		r.applied = gen
		r.current = nil
		r.logger.Debug("render failed", "gen", gen, "err", chart.ErrEmptyDataset)
		if r.delegate != nil {
			r.delegate.RenderFailed(gen, chart.ErrEmptyDataset)
		}
		return gen
	}

	r.lock.Lock()
	r.inFlight++
	r.lock.Unlock()
	go func() {
		result, err := chart.Layout(r.ctx, src, cfg, viewport)
		r.finish(completion{gen: gen, result: result, err: err})
	}()
	return gen
}

func (r *Renderer) finish(c completion) {
	r.lock.Lock()
	r.inFlight--
	r.done = append(r.done, c)
	r.lock.Unlock()
	r.invalidate()
}

// Drain reports every completed render to the delegate and applies the
// newest successful one. It must run on the same goroutine as Reload. The
// boolean reports whether the current result changed.
func (r *Renderer) Drain() (*chart.Result, bool) {
	r.lock.Lock()
	done := r.done
	r.done = nil
	r.lock.Unlock()

	changed := false
	for _, c := range done {
		if c.err != nil {
			r.logger.Debug("render failed", "gen", c.gen, "err", c.err)
			if r.delegate != nil {
				r.delegate.RenderFailed(c.gen, c.err)
			}
			continue
		}
		stale := c.gen <= r.applied
		if !stale {
			r.applied = c.gen
			r.current = c.result
			changed = true
		}
		r.logger.Debug("render finished", "gen", c.gen, "items", len(c.result.Points), "stale", stale)
		if r.delegate != nil {
			r.delegate.RenderFinished(c.gen, c.result, stale)
		}
	}
	return r.current, changed
}

// Current returns the most recently applied result, or nil.
func (r *Renderer) Current() *chart.Result {
	return r.current
}

// Busy reports whether any render is still being computed.
func (r *Renderer) Busy() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.inFlight > 0
}
