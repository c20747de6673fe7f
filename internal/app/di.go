package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/renjie/prism-lca/internal/config"
	"github.com/renjie/prism-lca/internal/platform/logger"
	"github.com/renjie/prism-lca/pkg/adapters/chart"
	"github.com/renjie/prism-lca/pkg/adapters/ingest"
	"github.com/renjie/prism-lca/pkg/adapters/report"
	"github.com/renjie/prism-lca/pkg/adapters/stats"
	"github.com/renjie/prism-lca/pkg/adapters/storage/sqlite"
	"github.com/renjie/prism-lca/pkg/core/domain"
	"github.com/renjie/prism-lca/pkg/core/services"
)

// DI lazily builds and caches the application components.
type DI struct {
	cfg *config.Config

	log       *zap.Logger
	store     *sqlite.Store
	analysis  *services.AnalysisService
	describer *stats.Describer

	closers []func() error
}

func NewDI(cfg *config.Config) *DI { return &DI{cfg: cfg} }

func (d *DI) Config() *config.Config { return d.cfg }

func (d *DI) Logger() (*zap.Logger, error) {
	if d.log == nil {
		log, err := logger.New(d.cfg.Logger.Level(), d.cfg.Logger.AsJSON())
		if err != nil {
			return nil, err
		}
		d.log = log
		d.closers = append(d.closers, func() error {
			_ = log.Sync()
			return nil
		})
	}
	return d.log, nil
}

// Store opens the run store, or returns nil when storage is disabled.
func (d *DI) Store() (*sqlite.Store, error) {
	if !d.cfg.Storage.Enabled() {
		return nil, nil
	}
	if d.store == nil {
		path := d.cfg.Storage.Path()
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		d.store = store
		d.closers = append(d.closers, store.Close)
	}
	return d.store, nil
}

func (d *DI) AnalysisService() (*services.AnalysisService, error) {
	if d.analysis == nil {
		log, err := d.Logger()
		if err != nil {
			return nil, err
		}

		opts := []services.AnalysisOption{
			services.WithLogger(log),
			services.WithReportWriter(report.NewCSVWriter(log)),
			services.WithChartRenderer(chart.NewRenderer(chart.WithRendererLogger(log))),
		}

		store, err := d.Store()
		if err != nil {
			return nil, err
		}
		if store != nil {
			opts = append(opts, services.WithRunRepository(store))
		}

		d.analysis = services.NewAnalysisService(
			ingest.NewCSVActivityIngestor(ingest.WithIngestLogger(log)),
			ingest.NewFactorLoader(""),
			opts...,
		)
	}
	return d.analysis, nil
}

func (d *DI) Describer() (*stats.Describer, error) {
	if d.describer == nil {
		log, err := d.Logger()
		if err != nil {
			return nil, err
		}
		d.describer = stats.NewDescriber(log)
	}
	return d.describer, nil
}

// DefaultRequest builds an analysis request from configuration.
// An empty chart list leaves Charts nil, which selects every chart.
func (d *DI) DefaultRequest() (domain.AnalysisRequest, error) {
	paths, analysis := d.cfg.Paths, d.cfg.Analysis

	charts, err := domain.ParseChartKinds(analysis.Charts())
	if err != nil {
		return domain.AnalysisRequest{}, fmt.Errorf("LCA_CHARTS: %w", err)
	}
	if len(charts) == 0 {
		charts = nil
	}

	return domain.AnalysisRequest{
		ActivityPath:    paths.InputData(),
		FactorPath:      paths.ImpactFactors(),
		OutputDataDir:   paths.OutputDataDir(),
		OutputFigureDir: paths.OutputFiguresDir(),
		ComparisonIDs:   analysis.ComparisonIDs(),
		LifecycleID:     analysis.LifecycleID(),
		EndOfLifeID:     analysis.EndOfLifeID(),
		Charts:          charts,
		Normalize:       analysis.Normalize(),
	}, nil
}

// Close releases resources in reverse creation order.
func (d *DI) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	d.closers = nil
	return errors.Join(errs...)
}
