package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRequest 一次完整分析所需的全部参数
// 由入口层显式构造并传入，不依赖任何全局状态
type AnalysisRequest struct {
	ActivityPath    string
	FactorPath      string
	OutputDataDir   string
	OutputFigureDir string

	ComparisonIDs []string
	LifecycleID   string // 生命周期分解图使用的产品
	EndOfLifeID   string // 报废处理分解图使用的产品

	Charts    []ChartKind // nil 表示全部图表
	Normalize bool        // 额外输出归一化汇总表
}

// AnalysisRun 一次分析运行的摘要，用于持久化与历史查询
type AnalysisRun struct {
	ID           uuid.UUID  `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   time.Time  `json:"finished_at"`
	Trigger      RunTrigger `json:"trigger"`
	Operator     string     `json:"operator"`
	BatchID      string     `json:"batch_id,omitempty"`
	TraceID      string     `json:"trace_id"` // 未指定时与运行 ID 相同
	ActivityPath string     `json:"activity_path"`
	FactorPath   string     `json:"factor_path"`

	ActivityRows int `json:"activity_rows"`
	SkippedRows  int `json:"skipped_rows"`
	Unmatched    int `json:"unmatched_rows"` // 未匹配到因子的活动行数

	Totals  []TotalImpact `json:"totals"`
	Outputs []string      `json:"outputs"` // 生成的文件路径
}
