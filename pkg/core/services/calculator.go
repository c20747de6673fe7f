package services

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

// Calculator 生命周期影响聚合器
// 实现了 ports.ImpactCalculator 接口
// 因子表在构造时扁平化为 (material, stage) -> 系数 的查找表，此后只读
type Calculator struct {
	factors map[domain.FactorKey]domain.Coefficients
	log     *zap.Logger
}

// CalculatorOption 定义配置选项函数 (Functional Option Pattern)
type CalculatorOption func(*Calculator)

// WithCalculatorLogger 设置日志
func WithCalculatorLogger(log *zap.Logger) CalculatorOption {
	return func(c *Calculator) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCalculator 由嵌套因子数据构造聚合器
// 材料与阶段统一转小写，含 "end"/"disposal" 的阶段归并为 end-of-life。
// 键冲突时后写入者覆盖；遍历按材料、阶段名排序，结果确定。
func NewCalculator(raw domain.RawFactors, opts ...CalculatorOption) *Calculator {
	c := &Calculator{log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.factors = flattenFactors(raw)
	c.log.Debug("impact factor table built", zap.Int("entries", len(c.factors)))
	return c
}

func flattenFactors(raw domain.RawFactors) map[domain.FactorKey]domain.Coefficients {
	flat := make(map[domain.FactorKey]domain.Coefficients)

	materials := lo.Keys(raw)
	slices.Sort(materials)

	for _, material := range materials {
		stages := lo.Keys(raw[material])
		slices.Sort(stages)

		for _, stage := range stages {
			impacts := raw[material][stage]
			flat[domain.NewFactorKey(material, stage)] = domain.Coefficients{
				Carbon: impacts[domain.FactorCarbon], // 缺失项为 0
				Energy: impacts[domain.FactorEnergy],
				Water:  impacts[domain.FactorWater],
			}
		}
	}
	return flat
}

// Factors 返回扁平化因子表的副本
func (c *Calculator) Factors() map[domain.FactorKey]domain.Coefficients {
	out := make(map[domain.FactorKey]domain.Coefficients, len(c.factors))
	for k, v := range c.factors {
		out[k] = v
	}
	return out
}

// HasFactor 按活动表一侧的规则 (仅转小写) 判断是否存在匹配因子
func (c *Calculator) HasFactor(material, stage string) bool {
	_, ok := c.factors[activityKey(material, stage)]
	return ok
}

// activityKey 活动记录的连接键
// 活动一侧只转小写，不做 disposal -> end-of-life 的同义归并
func activityKey(material, stage string) domain.FactorKey {
	return domain.FactorKey{
		Material: strings.ToLower(material),
		Stage:    strings.ToLower(stage),
	}
}

// CalculateImpacts 计算每条活动记录的影响值
// 对每行: impact = quantity_kg * factor + 直接测量值；未匹配因子时 factor 按 0 处理。
// 输出行数、行顺序与输入一致，输入表不被修改。
func (c *Calculator) CalculateImpacts(activities domain.ActivityTable) domain.ImpactTable {
	out := domain.ImpactTable{
		Columns: impactColumns(activities.Columns),
		Records: make([]domain.ImpactRecord, 0, len(activities.Records)),
	}

	unmatched := 0
	for _, r := range activities.Records {
		rec := r.Copy()
		rec.LifeCycleStage = strings.ToLower(rec.LifeCycleStage)
		rec.MaterialType = strings.ToLower(rec.MaterialType)

		coef, ok := c.factors[domain.FactorKey{Material: rec.MaterialType, Stage: rec.LifeCycleStage}]
		if !ok {
			unmatched++
		}

		out.Records = append(out.Records, domain.ImpactRecord{
			ActivityRecord: rec,
			Impacts: domain.Impacts{
				Carbon: rec.QuantityKg*coef.Carbon + rec.CarbonFootprintKgCO2e,
				Energy: rec.QuantityKg*coef.Energy + rec.EnergyConsumptionKWh,
				Water:  rec.QuantityKg*coef.Water + rec.WaterUsageLiters,
			},
		})
	}

	c.log.Debug("impacts calculated",
		zap.Int("rows", len(out.Records)),
		zap.Int("unmatched_rows", unmatched))
	return out
}

// impactColumns 输入列 + 三个影响列 (已存在的不重复追加)
func impactColumns(in []string) []string {
	if len(in) == 0 {
		in = append(slices.Clone(domain.RequiredActivityColumns), domain.ColWasteGenerated)
	}
	cols := slices.Clone(in)
	for _, col := range domain.ImpactColumns {
		if !slices.Contains(cols, col) {
			cols = append(cols, col)
		}
	}
	return cols
}

type productKey struct {
	id   string
	name string
}

// CalculateTotalImpacts 按 (product_id, product_name) 汇总各产品的影响与废弃物
// 同一 product_id 对应不同 product_name 时视为不同分组，不做合并。
// 结果按分组键排序。
func (c *Calculator) CalculateTotalImpacts(impacts []domain.ImpactRecord) []domain.TotalImpact {
	groups := make(map[productKey]*domain.TotalImpact)

	for _, r := range impacts {
		key := productKey{id: r.ProductID, name: r.ProductName}
		t, ok := groups[key]
		if !ok {
			t = &domain.TotalImpact{ProductID: r.ProductID, ProductName: r.ProductName}
			groups[key] = t
		}
		t.Impacts = t.Impacts.Add(r.Impacts)
		t.WasteGeneratedKg += r.WasteGeneratedKg
	}

	totals := make([]domain.TotalImpact, 0, len(groups))
	for _, t := range groups {
		totals = append(totals, *t)
	}
	slices.SortFunc(totals, func(a, b domain.TotalImpact) int {
		return cmp.Or(
			cmp.Compare(a.ProductID, b.ProductID),
			cmp.Compare(a.ProductName, b.ProductName),
		)
	})
	return totals
}

// CompareAlternatives 对比指定产品的汇总影响
// 先由明细行重新汇总，再按汇总表顺序过滤出 productIDs；不存在的 id 直接忽略。
// 每类影响相对最小值的百分比差异: (v - min) / min * 100；min <= 0 时整列为 0。
func (c *Calculator) CompareAlternatives(impacts []domain.ImpactRecord, productIDs []string) []domain.Comparison {
	selected := lo.Filter(c.CalculateTotalImpacts(impacts), func(t domain.TotalImpact, _ int) bool {
		return lo.Contains(productIDs, t.ProductID)
	})

	out := make([]domain.Comparison, 0, len(selected))
	if len(selected) == 0 {
		return out
	}

	minOf := func(get func(domain.Impacts) float64) float64 {
		return lo.Min(lo.Map(selected, func(t domain.TotalImpact, _ int) float64 {
			return get(t.Impacts)
		}))
	}
	minCarbon := minOf(func(i domain.Impacts) float64 { return i.Carbon })
	minEnergy := minOf(func(i domain.Impacts) float64 { return i.Energy })
	minWater := minOf(func(i domain.Impacts) float64 { return i.Water })

	for _, t := range selected {
		out = append(out, domain.Comparison{
			TotalImpact: t,
			RelativeDiff: domain.Impacts{
				Carbon: relativeDiff(t.Impacts.Carbon, minCarbon),
				Energy: relativeDiff(t.Impacts.Energy, minEnergy),
				Water:  relativeDiff(t.Impacts.Water, minWater),
			},
		})
	}
	return out
}

func relativeDiff(v, minimum float64) float64 {
	if minimum > 0 {
		return (v - minimum) / minimum * 100
	}
	return 0.0
}

// NormalizeImpacts 将三类影响分别缩放到 [0, 1]
// 适用于明细行或汇总行；某列最大值 > 0 时整列除以最大值，否则该列保持不变。
// 不排序、不删除行，输入切片不被修改。
func NormalizeImpacts[T domain.Measured[T]](rows []T) []T {
	out := slices.Clone(rows)
	if len(out) == 0 {
		return out
	}

	maxOf := func(get func(domain.Impacts) float64) float64 {
		m := get(out[0].ImpactValues())
		for _, r := range out[1:] {
			if v := get(r.ImpactValues()); v > m {
				m = v
			}
		}
		return m
	}
	maxCarbon := maxOf(func(i domain.Impacts) float64 { return i.Carbon })
	maxEnergy := maxOf(func(i domain.Impacts) float64 { return i.Energy })
	maxWater := maxOf(func(i domain.Impacts) float64 { return i.Water })

	for i, r := range out {
		v := r.ImpactValues()
		if maxCarbon > 0 {
			v.Carbon /= maxCarbon
		}
		if maxEnergy > 0 {
			v.Energy /= maxEnergy
		}
		if maxWater > 0 {
			v.Water /= maxWater
		}
		out[i] = r.WithImpacts(v)
	}
	return out
}
