package domain

// CoverageGap 活动表中出现、但因子表中不存在的 (材料, 阶段) 组合
// 这些行的因子贡献按 0 计算，影响值可能被低估
type CoverageGap struct {
	Material string `json:"material_type"`
	Stage    string `json:"life_cycle_stage"`
	Rows     int    `json:"rows"` // 受影响的活动行数
}
