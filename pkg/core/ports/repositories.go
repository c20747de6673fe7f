package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

// RunRepository 分析运行记录仓储接口
// 职责: 保存每次分析的摘要与按产品汇总的结果，供历史查询与趋势对比
type RunRepository interface {
	// SaveRun 保存一次运行 (含各产品汇总)
	SaveRun(ctx context.Context, run domain.AnalysisRun) error

	// RunByID 获取指定运行；不存在时返回 domain.ErrRunNotFound
	RunByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisRun, error)

	// ListRuns 按开始时间倒序列出最近的运行 (不含汇总明细)
	ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error)
}
