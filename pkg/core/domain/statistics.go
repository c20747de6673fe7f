package domain

// ColumnStatistics 单列描述性统计
type ColumnStatistics struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Filled int     `json:"filled"` // 用均值填补的缺失值个数
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"` // 样本标准差 (n-1)
}
