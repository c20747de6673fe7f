package domain

import (
	"fmt"
	"strings"
)

// ChartKind 图表类型
type ChartKind string

const (
	ChartBreakdown   ChartKind = "breakdown"   // 按类别汇总某一影响
	ChartLifecycle   ChartKind = "lifecycle"   // 单产品各阶段影响
	ChartComparison  ChartKind = "comparison"  // 备选产品对比
	ChartEndOfLife   ChartKind = "end_of_life" // 报废处理方式构成
	ChartCorrelation ChartKind = "correlation" // 影响类别相关性矩阵
)

// AllCharts 默认生成的全部图表
var AllCharts = []ChartKind{
	ChartBreakdown,
	ChartLifecycle,
	ChartComparison,
	ChartEndOfLife,
	ChartCorrelation,
}

// Valid 是否为已知图表类型
func (k ChartKind) Valid() bool {
	switch k {
	case ChartBreakdown, ChartLifecycle, ChartComparison, ChartEndOfLife, ChartCorrelation:
		return true
	}
	return false
}

// ParseChartKinds 解析图表名列表 (忽略大小写与空白，跳过空项)
// 出现未知图表名时返回 ErrUnknownChart。
func ParseChartKinds(names []string) ([]ChartKind, error) {
	kinds := make([]ChartKind, 0, len(names))
	for _, n := range names {
		kind := ChartKind(strings.ToLower(strings.TrimSpace(n)))
		if kind == "" {
			continue
		}
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownChart, n)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// ChartSpec 单张图表的渲染参数
type ChartSpec struct {
	Kind       ChartKind
	Title      string
	ImpactCol  string   // breakdown: 汇总的影响列
	GroupCol   string   // breakdown: 分组列
	ProductID  string   // lifecycle / end_of_life
	ProductIDs []string // comparison
	FileName   string   // 输出文件名 (不含目录)
}
