package backend

import (
	"context"
	"fmt"

	"git.sr.ht/~gioverse/skel/stream"
	"github.com/charmbracelet/log"
)

type WindowState struct {
	Bundle
	Controller *stream.Controller
	Renderer   *Renderer
}

// NewWindowState binds the application backend to a window. invalidate is
// usually the window's Invalidate method. Renders are reported to delegate.
func NewWindowState(ctx context.Context, bundle Bundle, invalidate func(), delegate Delegate) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, invalidate),
		Renderer:   NewRenderer(ctx, bundle.Logger, delegate, invalidate),
	}
}

type Bundle struct {
	Datasource *Datasource
	Logger     *log.Logger
}

func NewBundle(ctx context.Context, logger *log.Logger) (Bundle, error) {
	ds, err := NewDatasource(ctx, logger)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed creating datasource: %w", err)
	}
	return Bundle{
		Datasource: ds,
		Logger:     logger,
	}, nil
}
