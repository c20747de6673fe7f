package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/renjie/prism-lca/pkg/core/domain"
	"github.com/renjie/prism-lca/pkg/core/ports"
)

// 输出文件名
const (
	DetailedImpactsFile   = "detailed_impacts.csv"
	TotalImpactsFile      = "total_impacts_summary.csv"
	NormalizedImpactsFile = "normalized_impacts_summary.csv"
	ComparisonFile        = "product_comparison.csv"
)

// maxLoggedIngestErrors 日志中最多展示的坏行数
const maxLoggedIngestErrors = 5

// AnalysisService 端到端分析流程
// 加载 -> 计算 -> 写出结果表 -> 生成图表 -> 保存运行摘要
type AnalysisService struct {
	activities ports.ActivityIngestor
	factors    ports.FactorLoader

	writer ports.ReportWriter  // 可选报表层
	charts ports.ChartRenderer // 可选可视化层
	repo   ports.RunRepository // 可选持久层

	newCalculator func(domain.RawFactors) ports.ImpactCalculator
	now           func() time.Time
	log           *zap.Logger
}

// AnalysisOption 定义配置选项函数 (Functional Option Pattern)
type AnalysisOption func(*AnalysisService)

// WithReportWriter 设置报表层依赖
func WithReportWriter(w ports.ReportWriter) AnalysisOption {
	return func(s *AnalysisService) {
		s.writer = w
	}
}

// WithChartRenderer 设置可视化层依赖
func WithChartRenderer(r ports.ChartRenderer) AnalysisOption {
	return func(s *AnalysisService) {
		s.charts = r
	}
}

// WithRunRepository 设置持久层依赖
func WithRunRepository(repo ports.RunRepository) AnalysisOption {
	return func(s *AnalysisService) {
		s.repo = repo
	}
}

// WithLogger 设置日志
func WithLogger(log *zap.Logger) AnalysisOption {
	return func(s *AnalysisService) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock 替换时间源 (测试用)
func WithClock(now func() time.Time) AnalysisOption {
	return func(s *AnalysisService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAnalysisService 初始化分析服务
// 使用 Functional Options 模式进行配置
func NewAnalysisService(activities ports.ActivityIngestor, factors ports.FactorLoader, opts ...AnalysisOption) *AnalysisService {
	s := &AnalysisService{
		activities: activities,
		factors:    factors,
		now:        time.Now,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.newCalculator = func(raw domain.RawFactors) ports.ImpactCalculator {
		return NewCalculator(raw, WithCalculatorLogger(s.log))
	}
	return s
}

// Evaluation 一次计算的完整中间结果
type Evaluation struct {
	Calculator ports.ImpactCalculator
	Ingestion  *domain.IngestionResult
	Impacts    domain.ImpactTable
	Totals     []domain.TotalImpact
	Gaps       []domain.CoverageGap
}

// Evaluate 加载因子与活动表并完成计算，不产生任何输出文件
func (s *AnalysisService) Evaluate(ctx context.Context, activityPath, factorPath string) (*Evaluation, error) {
	const op = "services.AnalysisService.Evaluate"

	raw, err := s.factors.LoadFactors(ctx, factorPath)
	if err != nil {
		return nil, fmt.Errorf("%s: load factors: %w", op, err)
	}

	table, result, err := s.activities.IngestFile(ctx, activityPath)
	if err != nil {
		return nil, fmt.Errorf("%s: load activities: %w", op, err)
	}
	if result != nil && result.Failed > 0 {
		s.log.Warn("activity rows skipped",
			zap.Int("failed", result.Failed),
			zap.Int("total", result.Total),
			zap.Strings("errors", result.Errors[:min(len(result.Errors), maxLoggedIngestErrors)]))
	}

	// Context cancellation check (Fast fail)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	calc := s.newCalculator(raw)
	gaps := AuditCoverage(calc, table)
	for _, g := range gaps {
		s.log.Warn("no impact factor for activity rows, factor contribution is zero",
			zap.String("material_type", g.Material),
			zap.String("life_cycle_stage", g.Stage),
			zap.Int("rows", g.Rows))
	}

	impacts := calc.CalculateImpacts(table)
	return &Evaluation{
		Calculator: calc,
		Ingestion:  result,
		Impacts:    impacts,
		Totals:     calc.CalculateTotalImpacts(impacts.Records),
		Gaps:       gaps,
	}, nil
}

// Run 执行完整分析流程并返回运行摘要
func (s *AnalysisService) Run(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisRun, error) {
	const op = "services.AnalysisService.Run"

	run := &domain.AnalysisRun{
		ID:           uuid.New(),
		StartedAt:    s.now().UTC(),
		Trigger:      domain.RunTriggerManual,
		Operator:     "SYSTEM",
		ActivityPath: req.ActivityPath,
		FactorPath:   req.FactorPath,
	}
	if info, ok := domain.FromContext(ctx); ok {
		if info.Trigger.Valid() {
			run.Trigger = info.Trigger
		}
		if info.Operator != "" {
			run.Operator = info.Operator
		}
		run.BatchID = info.BatchID
		run.TraceID = info.TraceID
	}
	if run.TraceID == "" {
		run.TraceID = run.ID.String()
	}
	log := s.log.With(
		zap.String("run_id", run.ID.String()),
		zap.String("trace_id", run.TraceID))

	eval, err := s.Evaluate(ctx, req.ActivityPath, req.FactorPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	run.ActivityRows = eval.Impacts.Len()
	if eval.Ingestion != nil {
		run.SkippedRows = eval.Ingestion.Failed
	}
	run.Unmatched = UnmatchedRows(eval.Gaps)
	run.Totals = eval.Totals

	if s.writer != nil {
		outputs, err := s.writeTables(ctx, req, eval)
		run.Outputs = append(run.Outputs, outputs...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if s.charts != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		figures, err := s.charts.Render(ctx, req.OutputFigureDir, eval.Impacts, ChartSpecs(req))
		run.Outputs = append(run.Outputs, figures...)
		if err != nil {
			return nil, fmt.Errorf("%s: render charts: %w", op, err)
		}
	}

	run.FinishedAt = s.now().UTC()

	if s.repo != nil {
		if err := s.repo.SaveRun(ctx, *run); err != nil {
			return nil, fmt.Errorf("%s: persist run: %w", op, err)
		}
	}

	log.Info("analysis finished",
		zap.Int("activity_rows", run.ActivityRows),
		zap.Int("products", len(run.Totals)),
		zap.Int("unmatched_rows", run.Unmatched),
		zap.Int("outputs", len(run.Outputs)))
	return run, nil
}

func (s *AnalysisService) writeTables(ctx context.Context, req domain.AnalysisRequest, eval *Evaluation) ([]string, error) {
	var outputs []string
	var errs []error

	write := func(name string, fn func(path string) error) {
		path := filepath.Join(req.OutputDataDir, name)
		if err := fn(path); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", name, err))
			return
		}
		outputs = append(outputs, path)
	}

	write(DetailedImpactsFile, func(path string) error {
		return s.writer.WriteImpacts(ctx, path, eval.Impacts)
	})
	write(TotalImpactsFile, func(path string) error {
		return s.writer.WriteTotals(ctx, path, eval.Totals)
	})
	if req.Normalize {
		write(NormalizedImpactsFile, func(path string) error {
			return s.writer.WriteTotals(ctx, path, NormalizeImpacts(eval.Totals))
		})
	}
	if len(req.ComparisonIDs) > 0 {
		rows := eval.Calculator.CompareAlternatives(eval.Impacts.Records, req.ComparisonIDs)
		write(ComparisonFile, func(path string) error {
			return s.writer.WriteComparison(ctx, path, rows)
		})
	}

	return outputs, errors.Join(errs...)
}

// ChartSpecs 根据请求生成图表参数
// Charts 为 nil 时生成全部图表，空切片表示不生成；缺少所需产品 id 的图表被跳过
func ChartSpecs(req domain.AnalysisRequest) []domain.ChartSpec {
	kinds := req.Charts
	if kinds == nil {
		kinds = domain.AllCharts
	}

	var specs []domain.ChartSpec
	for _, kind := range domain.AllCharts {
		if !slices.Contains(kinds, kind) {
			continue
		}
		switch kind {
		case domain.ChartBreakdown:
			specs = append(specs, domain.ChartSpec{
				Kind:      kind,
				Title:     "Carbon Impact Breakdown by Material Type",
				ImpactCol: domain.ColCarbonImpact,
				GroupCol:  domain.ColMaterialType,
				FileName:  "carbon_breakdown_by_material.png",
			})
		case domain.ChartLifecycle:
			if req.LifecycleID == "" {
				continue
			}
			specs = append(specs, domain.ChartSpec{
				Kind:      kind,
				Title:     "Lifecycle Impact Breakdown for Product " + req.LifecycleID,
				ProductID: req.LifecycleID,
				FileName:  "lifecycle_impacts_" + req.LifecycleID + ".png",
			})
		case domain.ChartComparison:
			if len(req.ComparisonIDs) == 0 {
				continue
			}
			specs = append(specs, domain.ChartSpec{
				Kind:       kind,
				Title:      "Product Comparison: " + strings.Join(req.ComparisonIDs, " vs "),
				ProductIDs: req.ComparisonIDs,
				FileName:   "product_comparison.png",
			})
		case domain.ChartEndOfLife:
			if req.EndOfLifeID == "" {
				continue
			}
			specs = append(specs, domain.ChartSpec{
				Kind:      kind,
				Title:     "End-of-Life Management for Product " + req.EndOfLifeID,
				ProductID: req.EndOfLifeID,
				FileName:  "end_of_life_" + req.EndOfLifeID + ".png",
			})
		case domain.ChartCorrelation:
			specs = append(specs, domain.ChartSpec{
				Kind:     kind,
				Title:    "Correlation Matrix of Environmental Impacts",
				FileName: "impact_correlation_matrix.png",
			})
		}
	}
	return specs
}
