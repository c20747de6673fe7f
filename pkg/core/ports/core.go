package ports

import (
	"context"
	"io"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

// ActivityIngestor 活动表接入 (Ingestion Layer)
// 职责: 把分隔文本解析为 ActivityTable，坏行计入 IngestionResult 而不是中断
type ActivityIngestor interface {
	// IngestStream 从任意流读取活动表
	IngestStream(ctx context.Context, stream io.Reader) (domain.ActivityTable, *domain.IngestionResult, error)

	// IngestFile 从文件路径读取活动表
	IngestFile(ctx context.Context, path string) (domain.ActivityTable, *domain.IngestionResult, error)
}

// FactorLoader 因子数据接入
// 职责: 读取嵌套的 material -> stage -> impact 因子数据 (JSON / YAML)
type FactorLoader interface {
	LoadFactors(ctx context.Context, path string) (domain.RawFactors, error)
}

// ImpactCalculator 影响聚合器 (Core Capability)
// 纯计算，无 I/O，构造后只读，可被多个 goroutine 共享
type ImpactCalculator interface {
	CalculateImpacts(activities domain.ActivityTable) domain.ImpactTable
	CalculateTotalImpacts(impacts []domain.ImpactRecord) []domain.TotalImpact
	CompareAlternatives(impacts []domain.ImpactRecord, productIDs []string) []domain.Comparison
	HasFactor(material, stage string) bool
}
