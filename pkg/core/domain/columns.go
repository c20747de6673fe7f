package domain

// 活动表与结果表的稳定列名
// 报表层与可视化层按列名消费结果，不可随意改名
const (
	ColProductID         = "product_id"
	ColProductName       = "product_name"
	ColLifeCycleStage    = "life_cycle_stage"
	ColMaterialType      = "material_type"
	ColQuantityKg        = "quantity_kg"
	ColCarbonFootprint   = "carbon_footprint_kg_co2e"
	ColEnergyConsumption = "energy_consumption_kwh"
	ColWaterUsage        = "water_usage_liters"
	ColWasteGenerated    = "waste_generated_kg"

	ColCarbonImpact = "carbon_impact"
	ColEnergyImpact = "energy_impact"
	ColWaterImpact  = "water_impact"
)

// RelativeDiffSuffix 对比结果中相对差异列的后缀 (e.g. carbon_impact_relative_diff_%)
const RelativeDiffSuffix = "_relative_diff_%"

// RequiredActivityColumns 活动表必须包含的列
var RequiredActivityColumns = []string{
	ColProductID,
	ColProductName,
	ColLifeCycleStage,
	ColMaterialType,
	ColQuantityKg,
	ColCarbonFootprint,
	ColEnergyConsumption,
	ColWaterUsage,
}

// ImpactColumns 计算得出的三类影响列，顺序固定
var ImpactColumns = []string{ColCarbonImpact, ColEnergyImpact, ColWaterImpact}

// RelativeDiffColumn 返回某影响类型对应的相对差异列名
func RelativeDiffColumn(impactColumn string) string {
	return impactColumn + RelativeDiffSuffix
}
