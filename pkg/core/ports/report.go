package ports

import (
	"context"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

// ReportWriter 结果持久化/报表层
// 输出格式与位置由实现决定，聚合器对此无感知
type ReportWriter interface {
	WriteImpacts(ctx context.Context, path string, table domain.ImpactTable) error
	WriteTotals(ctx context.Context, path string, totals []domain.TotalImpact) error
	WriteComparison(ctx context.Context, path string, rows []domain.Comparison) error
}

// ChartRenderer 可视化层
// 按列名消费明细表，在 dir 下生成图片并返回路径
type ChartRenderer interface {
	Render(ctx context.Context, dir string, impacts domain.ImpactTable, specs []domain.ChartSpec) ([]string, error)
}
