package domain

import "strings"

// 因子数据中的影响项名称
const (
	FactorCarbon = "carbon_impact"
	FactorEnergy = "energy_impact"
	FactorWater  = "water_impact"
)

// StageEndOfLife 报废阶段的规范名称
const StageEndOfLife = "end-of-life"

// RawFactors 原始嵌套因子数据: material -> stage -> impact_name -> value
// 任何一项影响缺失时按 0 处理
type RawFactors map[string]map[string]map[string]float64

// FactorKey 扁平化因子表的复合键 (均为小写)
type FactorKey struct {
	Material string
	Stage    string
}

// Coefficients 每公斤材料的影响系数
type Coefficients struct {
	Carbon float64 `json:"carbon_factor"`
	Energy float64 `json:"energy_factor"`
	Water  float64 `json:"water_factor"`
}

// NormalizeStage 因子表一侧的阶段规范化
// 转小写；名称含 "end" 或 "disposal" 的阶段统一为 end-of-life
func NormalizeStage(stage string) string {
	s := strings.ToLower(stage)
	if strings.Contains(s, "end") || strings.Contains(s, "disposal") {
		return StageEndOfLife
	}
	return s
}

// NewFactorKey 构造因子表键：材料小写，阶段规范化
func NewFactorKey(material, stage string) FactorKey {
	return FactorKey{
		Material: strings.ToLower(material),
		Stage:    NormalizeStage(stage),
	}
}
