package services

import (
	"cmp"
	"slices"
	"strings"

	"github.com/renjie/prism-lca/pkg/core/domain"
	"github.com/renjie/prism-lca/pkg/core/ports"
)

// AuditCoverage 找出活动表中没有匹配因子的 (材料, 阶段) 组合
// 聚合器本身不输出匹配审计，需要时由调用方单独执行此检查。
// 结果按材料、阶段排序。
func AuditCoverage(calc ports.ImpactCalculator, activities domain.ActivityTable) []domain.CoverageGap {
	counts := make(map[domain.FactorKey]int)
	for _, r := range activities.Records {
		if calc.HasFactor(r.MaterialType, r.LifeCycleStage) {
			continue
		}
		counts[activityKey(r.MaterialType, r.LifeCycleStage)]++
	}

	gaps := make([]domain.CoverageGap, 0, len(counts))
	for k, n := range counts {
		gaps = append(gaps, domain.CoverageGap{Material: k.Material, Stage: k.Stage, Rows: n})
	}
	slices.SortFunc(gaps, func(a, b domain.CoverageGap) int {
		return cmp.Or(
			strings.Compare(a.Material, b.Material),
			strings.Compare(a.Stage, b.Stage),
		)
	})
	return gaps
}

// UnmatchedRows 汇总未匹配的活动行数
func UnmatchedRows(gaps []domain.CoverageGap) int {
	n := 0
	for _, g := range gaps {
		n += g.Rows
	}
	return n
}
