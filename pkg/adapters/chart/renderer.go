package chart

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

// Renderer implements ports.ChartRenderer, writing one PNG per spec.
type Renderer struct {
	factory *Factory
	log     *zap.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithFactory replaces the chart registry (default GetFactory()).
func WithFactory(f *Factory) RendererOption {
	return func(r *Renderer) {
		if f != nil {
			r.factory = f
		}
	}
}

// WithRendererLogger sets the logger.
func WithRendererLogger(log *zap.Logger) RendererOption {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRenderer creates a PNG chart renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{factory: GetFactory(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws every spec into dir and returns the written paths.
// Specs with nothing to draw are skipped with a warning; other failures abort.
func (r *Renderer) Render(ctx context.Context, dir string, impacts domain.ImpactTable, specs []domain.ChartSpec) ([]string, error) {
	const op = "chart.Renderer.Render"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: create figure dir: %w", op, err)
	}

	var paths []string
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		chart, err := r.factory.Create(spec)
		if err != nil {
			return paths, fmt.Errorf("%s: %w", op, err)
		}

		dc, err := chart.Plot(impacts)
		if errors.Is(err, domain.ErrNoChartData) {
			r.log.Warn("chart skipped", zap.String("kind", string(spec.Kind)), zap.Error(err))
			continue
		}
		if err != nil {
			return paths, fmt.Errorf("%s: %s: %w", op, spec.Kind, err)
		}

		name := spec.FileName
		if name == "" {
			name = string(spec.Kind) + ".png"
		}
		path := filepath.Join(dir, name)
		if err := dc.SavePNG(path); err != nil {
			return paths, fmt.Errorf("%s: save %s: %w", op, path, err)
		}
		r.log.Debug("chart saved", zap.String("kind", string(spec.Kind)), zap.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}
