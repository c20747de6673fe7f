package domain

import "strconv"

// ActivityRecord 代表某产品在某生命周期阶段的一条活动记录
// 阶段与材料按大小写不敏感比较，除此之外不做任何规范化
type ActivityRecord struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	LifeCycleStage string `json:"life_cycle_stage"`
	MaterialType   string `json:"material_type"`

	QuantityKg float64 `json:"quantity_kg"`

	// 直接测量值，已是最终单位，不经过因子表
	CarbonFootprintKgCO2e float64 `json:"carbon_footprint_kg_co2e"`
	EnergyConsumptionKWh  float64 `json:"energy_consumption_kwh"`
	WaterUsageLiters      float64 `json:"water_usage_liters"`
	WasteGeneratedKg      float64 `json:"waste_generated_kg"`

	// Extras 透传列 (列名 -> 原始文本)，计算过程不读取、不修改
	Extras map[string]string `json:"extras,omitempty"`
}

// Copy 返回深拷贝 (Extras 不与原记录共享)
func (r ActivityRecord) Copy() ActivityRecord {
	if r.Extras != nil {
		extras := make(map[string]string, len(r.Extras))
		for k, v := range r.Extras {
			extras[k] = v
		}
		r.Extras = extras
	}
	return r
}

// Text 按列名取文本值，透传列也可读取
func (r ActivityRecord) Text(col string) (string, bool) {
	switch col {
	case ColProductID:
		return r.ProductID, true
	case ColProductName:
		return r.ProductName, true
	case ColLifeCycleStage:
		return r.LifeCycleStage, true
	case ColMaterialType:
		return r.MaterialType, true
	}
	if n, ok := r.number(col); ok {
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	v, ok := r.Extras[col]
	return v, ok
}

// Number 按列名取数值；透传列尝试按浮点数解析
func (r ActivityRecord) Number(col string) (float64, bool) {
	if n, ok := r.number(col); ok {
		return n, true
	}
	v, ok := r.Extras[col]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (r ActivityRecord) number(col string) (float64, bool) {
	switch col {
	case ColQuantityKg:
		return r.QuantityKg, true
	case ColCarbonFootprint:
		return r.CarbonFootprintKgCO2e, true
	case ColEnergyConsumption:
		return r.EnergyConsumptionKWh, true
	case ColWaterUsage:
		return r.WaterUsageLiters, true
	case ColWasteGenerated:
		return r.WasteGeneratedKg, true
	}
	return 0, false
}

// ActivityTable 活动表：列顺序 + 记录
// Columns 保留数据源中的列顺序 (含透传列)，供报表层按原顺序输出
type ActivityTable struct {
	Columns []string         `json:"columns"`
	Records []ActivityRecord `json:"records"`
}

// Len 返回记录条数
func (t ActivityTable) Len() int { return len(t.Records) }
