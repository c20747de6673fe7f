package services_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-lca/pkg/core/domain"
	"github.com/renjie/prism-lca/pkg/core/services"
	"github.com/renjie/prism-lca/pkg/core/services/mocks"
)

type stubIngestor struct {
	table  domain.ActivityTable
	result *domain.IngestionResult
	err    error
}

func (s stubIngestor) IngestStream(context.Context, io.Reader) (domain.ActivityTable, *domain.IngestionResult, error) {
	return s.table, s.result, s.err
}

func (s stubIngestor) IngestFile(context.Context, string) (domain.ActivityTable, *domain.IngestionResult, error) {
	return s.table, s.result, s.err
}

type stubFactors struct {
	raw domain.RawFactors
	err error
}

func (s stubFactors) LoadFactors(context.Context, string) (domain.RawFactors, error) {
	return s.raw, s.err
}

// recordingWriter keeps what would have been written, keyed by file name.
type recordingWriter struct {
	mu          sync.Mutex
	impacts     map[string]domain.ImpactTable
	totals      map[string][]domain.TotalImpact
	comparisons map[string][]domain.Comparison
	failOn      string
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{
		impacts:     map[string]domain.ImpactTable{},
		totals:      map[string][]domain.TotalImpact{},
		comparisons: map[string][]domain.Comparison{},
	}
}

func (w *recordingWriter) fail(path string) error {
	if w.failOn != "" && filepath.Base(path) == w.failOn {
		return errors.New("disk full")
	}
	return nil
}

func (w *recordingWriter) WriteImpacts(_ context.Context, path string, t domain.ImpactTable) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fail(path); err != nil {
		return err
	}
	w.impacts[filepath.Base(path)] = t
	return nil
}

func (w *recordingWriter) WriteTotals(_ context.Context, path string, t []domain.TotalImpact) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fail(path); err != nil {
		return err
	}
	w.totals[filepath.Base(path)] = t
	return nil
}

func (w *recordingWriter) WriteComparison(_ context.Context, path string, c []domain.Comparison) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fail(path); err != nil {
		return err
	}
	w.comparisons[filepath.Base(path)] = c
	return nil
}

type stubRenderer struct {
	specs []domain.ChartSpec
	err   error
}

func (r *stubRenderer) Render(_ context.Context, dir string, _ domain.ImpactTable, specs []domain.ChartSpec) ([]string, error) {
	r.specs = specs
	paths := make([]string, 0, len(specs))
	for _, s := range specs {
		paths = append(paths, filepath.Join(dir, s.FileName))
	}
	return paths, r.err
}

func fixedClock() func() time.Time {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var n int
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestAnalysisServiceRun(t *testing.T) {
	t.Parallel()

	operator := gofakeit.Name()
	batch := gofakeit.UUID()
	trace := gofakeit.UUID()

	table := sampleActivities()
	table.Records = append(table.Records, activity("P003", "Product3", "use", "wood", 10, 1, 2, 3, 0))

	writer := newRecordingWriter()
	renderer := &stubRenderer{}
	repo := mocks.NewMockRunRepository(t)
	repo.On("SaveRun", mock.Anything, mock.MatchedBy(func(run domain.AnalysisRun) bool {
		return run.Operator == operator && run.BatchID == batch && run.TraceID == trace && len(run.Totals) == 3
	})).Return(nil).Once()

	svc := services.NewAnalysisService(
		stubIngestor{table: table, result: &domain.IngestionResult{Total: 8, Success: 7, Failed: 1, Errors: []string{"line 9: bad"}}},
		stubFactors{raw: sampleFactors()},
		services.WithReportWriter(writer),
		services.WithChartRenderer(renderer),
		services.WithRunRepository(repo),
		services.WithClock(fixedClock()),
	)

	ctx := domain.NewContext(context.Background(), domain.RunContext{
		Trigger:  domain.RunTriggerScheduled,
		Operator: operator,
		BatchID:  batch,
		TraceID:  trace,
	})
	run, err := svc.Run(ctx, domain.AnalysisRequest{
		ActivityPath:    "activities.csv",
		FactorPath:      "factors.json",
		OutputDataDir:   "out/data",
		OutputFigureDir: "out/figures",
		ComparisonIDs:   []string{"P002", "P001"},
		LifecycleID:     "P001",
		Normalize:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RunTriggerScheduled, run.Trigger)
	assert.Equal(t, 7, run.ActivityRows)
	assert.Equal(t, 1, run.SkippedRows)
	assert.Equal(t, 1, run.Unmatched)
	assert.True(t, run.FinishedAt.After(run.StartedAt))
	assert.Len(t, run.Totals, 3)

	// 1. Result tables
	require.Contains(t, writer.impacts, services.DetailedImpactsFile)
	assert.Len(t, writer.impacts[services.DetailedImpactsFile].Records, 7)
	require.Contains(t, writer.totals, services.TotalImpactsFile)
	require.Contains(t, writer.totals, services.NormalizedImpactsFile)
	assert.Equal(t, 1.0, writer.totals[services.NormalizedImpactsFile][0].Impacts.Carbon)
	require.Contains(t, writer.comparisons, services.ComparisonFile)
	assert.Len(t, writer.comparisons[services.ComparisonFile], 2)

	// 2. Charts: end-of-life has no product id and is skipped
	kinds := make([]domain.ChartKind, 0, len(renderer.specs))
	for _, s := range renderer.specs {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []domain.ChartKind{
		domain.ChartBreakdown,
		domain.ChartLifecycle,
		domain.ChartComparison,
		domain.ChartCorrelation,
	}, kinds)

	// 3. Outputs: four tables and four figures
	assert.Len(t, run.Outputs, 8)
	assert.Contains(t, run.Outputs, filepath.Join("out/data", services.DetailedImpactsFile))
	assert.Contains(t, run.Outputs, filepath.Join("out/figures", "lifecycle_impacts_P001.png"))
}

func TestAnalysisServiceRunDefaults(t *testing.T) {
	t.Parallel()

	writer := newRecordingWriter()
	svc := services.NewAnalysisService(
		stubIngestor{table: sampleActivities(), result: &domain.IngestionResult{Total: 6, Success: 6}},
		stubFactors{raw: sampleFactors()},
		services.WithReportWriter(writer),
	)

	run, err := svc.Run(context.Background(), domain.AnalysisRequest{OutputDataDir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, domain.RunTriggerManual, run.Trigger)
	assert.Equal(t, "SYSTEM", run.Operator)
	assert.Equal(t, run.ID.String(), run.TraceID)
	assert.Len(t, run.Outputs, 2)
	assert.NotContains(t, writer.totals, services.NormalizedImpactsFile)
	assert.Empty(t, writer.comparisons)
}

func TestAnalysisServiceRunErrors(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("boom")

	tests := []struct {
		name    string
		ingest  stubIngestor
		factors stubFactors
		render  *stubRenderer
		saveErr error
		wantErr error
	}{
		{
			name:    "factor load fails",
			ingest:  stubIngestor{table: sampleActivities()},
			factors: stubFactors{err: loadErr},
			wantErr: loadErr,
		},
		{
			name:    "activity load fails",
			ingest:  stubIngestor{err: domain.ErrMissingColumn},
			factors: stubFactors{raw: sampleFactors()},
			wantErr: domain.ErrMissingColumn,
		},
		{
			name:    "chart render fails",
			ingest:  stubIngestor{table: sampleActivities()},
			factors: stubFactors{raw: sampleFactors()},
			render:  &stubRenderer{err: loadErr},
			wantErr: loadErr,
		},
		{
			name:    "persist fails",
			ingest:  stubIngestor{table: sampleActivities()},
			factors: stubFactors{raw: sampleFactors()},
			saveErr: loadErr,
			wantErr: loadErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := []services.AnalysisOption{}
			if tt.render != nil {
				opts = append(opts, services.WithChartRenderer(tt.render))
			}
			if tt.saveErr != nil {
				repo := mocks.NewMockRunRepository(t)
				repo.On("SaveRun", mock.Anything, mock.Anything).Return(tt.saveErr).Once()
				opts = append(opts, services.WithRunRepository(repo))
			}

			svc := services.NewAnalysisService(tt.ingest, tt.factors, opts...)
			run, err := svc.Run(context.Background(), domain.AnalysisRequest{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, run)
		})
	}
}

func TestAnalysisServiceWriteErrorsAreJoined(t *testing.T) {
	t.Parallel()

	writer := newRecordingWriter()
	writer.failOn = services.TotalImpactsFile

	repo := mocks.NewMockRunRepository(t)
	svc := services.NewAnalysisService(
		stubIngestor{table: sampleActivities()},
		stubFactors{raw: sampleFactors()},
		services.WithReportWriter(writer),
		services.WithRunRepository(repo),
	)

	_, err := svc.Run(context.Background(), domain.AnalysisRequest{ComparisonIDs: []string{"P001"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), services.TotalImpactsFile)

	// other tables are still written, nothing is persisted
	assert.Contains(t, writer.impacts, services.DetailedImpactsFile)
	assert.Contains(t, writer.comparisons, services.ComparisonFile)
	repo.AssertNotCalled(t, "SaveRun", mock.Anything, mock.Anything)
}

func TestAnalysisServiceCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := services.NewAnalysisService(stubIngestor{table: sampleActivities()}, stubFactors{raw: sampleFactors()})
	_, err := svc.Run(ctx, domain.AnalysisRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalysisServiceEvaluate(t *testing.T) {
	t.Parallel()

	table := sampleActivities()
	table.Records = append(table.Records,
		activity("P003", "Product3", "Disposal", "steel", 10, 1, 1, 1, 0),
		activity("P003", "Product3", "Disposal", "Steel", 10, 1, 1, 1, 0),
	)

	svc := services.NewAnalysisService(stubIngestor{table: table}, stubFactors{raw: sampleFactors()})
	eval, err := svc.Evaluate(context.Background(), "a.csv", "f.json")
	require.NoError(t, err)

	assert.Equal(t, 8, eval.Impacts.Len())
	assert.Len(t, eval.Totals, 3)
	assert.Equal(t, []domain.CoverageGap{{Material: "steel", Stage: "disposal", Rows: 2}}, eval.Gaps)

	rows := eval.Calculator.CompareAlternatives(eval.Impacts.Records, []string{"P003"})
	require.Len(t, rows, 1)
	assert.InDelta(t, 2.0, rows[0].Impacts.Carbon, eps)
}

func TestChartSpecs(t *testing.T) {
	t.Parallel()

	full := domain.AnalysisRequest{
		ComparisonIDs: []string{"P002", "P003"},
		LifecycleID:   "P001",
		EndOfLifeID:   "P001",
	}

	tests := []struct {
		name  string
		req   domain.AnalysisRequest
		files []string
	}{
		{
			name: "all charts",
			req:  full,
			files: []string{
				"carbon_breakdown_by_material.png",
				"lifecycle_impacts_P001.png",
				"product_comparison.png",
				"end_of_life_P001.png",
				"impact_correlation_matrix.png",
			},
		},
		{
			name:  "charts without product ids are skipped",
			req:   domain.AnalysisRequest{},
			files: []string{"carbon_breakdown_by_material.png", "impact_correlation_matrix.png"},
		},
		{
			name: "selection keeps canonical order",
			req: func() domain.AnalysisRequest {
				r := full
				r.Charts = []domain.ChartKind{domain.ChartCorrelation, domain.ChartComparison}
				return r
			}(),
			files: []string{"product_comparison.png", "impact_correlation_matrix.png"},
		},
		{
			name: "empty selection renders nothing",
			req: func() domain.AnalysisRequest {
				r := full
				r.Charts = []domain.ChartKind{}
				return r
			}(),
			files: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var files []string
			for _, s := range services.ChartSpecs(tt.req) {
				files = append(files, s.FileName)
			}
			assert.Equal(t, tt.files, files)
		})
	}

	specs := services.ChartSpecs(full)
	assert.Equal(t, "Product Comparison: P002 vs P003", specs[2].Title)
	assert.Equal(t, []string{"P002", "P003"}, specs[2].ProductIDs)
	assert.Equal(t, domain.ColCarbonImpact, specs[0].ImpactCol)
}
