package domain

// Impacts 三类环境影响值 (碳、能源、水)
type Impacts struct {
	Carbon float64 `json:"carbon_impact"`
	Energy float64 `json:"energy_impact"`
	Water  float64 `json:"water_impact"`
}

// Add 逐项相加
func (i Impacts) Add(o Impacts) Impacts {
	return Impacts{
		Carbon: i.Carbon + o.Carbon,
		Energy: i.Energy + o.Energy,
		Water:  i.Water + o.Water,
	}
}

// Get 按列名取值 (carbon_impact / energy_impact / water_impact)
func (i Impacts) Get(col string) (float64, bool) {
	switch col {
	case ColCarbonImpact:
		return i.Carbon, true
	case ColEnergyImpact:
		return i.Energy, true
	case ColWaterImpact:
		return i.Water, true
	}
	return 0, false
}

// Measured 可被归一化的行 (明细行或汇总行)
// WithImpacts 返回替换了影响值的新行，原行不变
type Measured[T any] interface {
	ImpactValues() Impacts
	WithImpacts(Impacts) T
}

// ImpactRecord 活动记录 + 计算出的影响值
type ImpactRecord struct {
	ActivityRecord
	Impacts Impacts `json:"impacts"`
}

func (r ImpactRecord) ImpactValues() Impacts { return r.Impacts }

func (r ImpactRecord) WithImpacts(i Impacts) ImpactRecord {
	r.Impacts = i
	return r
}

// Number 按列名取数值，影响列优先
func (r ImpactRecord) Number(col string) (float64, bool) {
	if v, ok := r.Impacts.Get(col); ok {
		return v, true
	}
	return r.ActivityRecord.Number(col)
}

// ImpactTable 明细影响表
// Columns = 输入列 + carbon_impact, energy_impact, water_impact
type ImpactTable struct {
	Columns []string       `json:"columns"`
	Records []ImpactRecord `json:"records"`
}

// Len 返回记录条数
func (t ImpactTable) Len() int { return len(t.Records) }

// TotalImpact 单个产品 (product_id + product_name) 的汇总影响
type TotalImpact struct {
	ProductID        string  `json:"product_id"`
	ProductName      string  `json:"product_name"`
	Impacts          Impacts `json:"impacts"`
	WasteGeneratedKg float64 `json:"waste_generated_kg"`
}

func (t TotalImpact) ImpactValues() Impacts { return t.Impacts }

func (t TotalImpact) WithImpacts(i Impacts) TotalImpact {
	t.Impacts = i
	return t
}

// TotalColumns 汇总表列顺序
var TotalColumns = []string{
	ColProductID,
	ColProductName,
	ColCarbonImpact,
	ColEnergyImpact,
	ColWaterImpact,
	ColWasteGenerated,
}

// Comparison 备选产品对比结果
// RelativeDiff 为相对最优 (最小值) 的百分比差异
type Comparison struct {
	TotalImpact
	RelativeDiff Impacts `json:"relative_diff_pct"`
}

// ComparisonColumns 对比表列顺序
var ComparisonColumns = append(append([]string{}, TotalColumns...),
	RelativeDiffColumn(ColCarbonImpact),
	RelativeDiffColumn(ColEnergyImpact),
	RelativeDiffColumn(ColWaterImpact),
)
