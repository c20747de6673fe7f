package chart

import (
	"fmt"
	"slices"

	"github.com/fogleman/gg"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

// Chart turns a detailed impact table into a drawable figure.
// Plot returns domain.ErrNoChartData when the table holds nothing to draw.
type Chart interface {
	Plot(table domain.ImpactTable) (*gg.Context, error)
}

var impactPanels = []struct {
	col   string
	title string
}{
	{domain.ColCarbonImpact, "Carbon (kg CO2e)"},
	{domain.ColEnergyImpact, "Energy (kWh)"},
	{domain.ColWaterImpact, "Water (L)"},
}

func impactPanel(col, title string, labels []string, values []float64) panel {
	p := panel{Title: title, Labels: labels, Values: values, Color: otherColor}
	switch col {
	case domain.ColCarbonImpact:
		p.Color = carbonColor
	case domain.ColEnergyImpact:
		p.Color = energyColor
	case domain.ColWaterImpact:
		p.Color = waterColor
	}
	return p
}

// Breakdown sums one impact column per category.
type Breakdown struct {
	spec domain.ChartSpec
}

func (c *Breakdown) Plot(table domain.ImpactTable) (*gg.Context, error) {
	if table.Len() == 0 {
		return nil, fmt.Errorf("%w: breakdown: empty table", domain.ErrNoChartData)
	}

	sums := make(map[string]float64)
	for _, r := range table.Records {
		group, _ := r.Text(c.spec.GroupCol)
		v, _ := r.Number(c.spec.ImpactCol)
		sums[group] += v
	}
	labels := lo.Keys(sums)
	slices.Sort(labels)
	values := lo.Map(labels, func(l string, _ int) float64 { return sums[l] })

	title := c.spec.Title
	if title == "" {
		title = fmt.Sprintf("%s by %s", c.spec.ImpactCol, c.spec.GroupCol)
	}
	return drawPanels(title, []panel{impactPanel(c.spec.ImpactCol, c.spec.ImpactCol, labels, values)}), nil
}

// Lifecycle shows stage-by-stage impacts of one product.
type Lifecycle struct {
	spec domain.ChartSpec
}

func (c *Lifecycle) Plot(table domain.ImpactTable) (*gg.Context, error) {
	rows := productRows(table, c.spec.ProductID)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: lifecycle: product %s", domain.ErrNoChartData, c.spec.ProductID)
	}

	// 阶段按首次出现顺序排列
	stages := lo.Uniq(lo.Map(rows, func(r domain.ImpactRecord, _ int) string { return r.LifeCycleStage }))
	byStage := lo.GroupBy(rows, func(r domain.ImpactRecord) string { return r.LifeCycleStage })

	panels := make([]panel, 0, len(impactPanels))
	for _, ip := range impactPanels {
		values := lo.Map(stages, func(s string, _ int) float64 {
			return sumOf(byStage[s], ip.col)
		})
		panels = append(panels, impactPanel(ip.col, ip.title, stages, values))
	}
	return drawPanels(titleOr(c.spec, "Lifecycle Impact Breakdown for Product "+c.spec.ProductID), panels), nil
}

// Comparison shows total impacts of several products side by side.
type Comparison struct {
	spec domain.ChartSpec
}

func (c *Comparison) Plot(table domain.ImpactTable) (*gg.Context, error) {
	byProduct := lo.GroupBy(table.Records, func(r domain.ImpactRecord) string { return r.ProductID })
	ids := lo.Filter(lo.Uniq(c.spec.ProductIDs), func(id string, _ int) bool {
		_, ok := byProduct[id]
		return ok
	})
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: comparison: none of %v", domain.ErrNoChartData, c.spec.ProductIDs)
	}

	panels := make([]panel, 0, len(impactPanels))
	for _, ip := range impactPanels {
		values := lo.Map(ids, func(id string, _ int) float64 {
			return sumOf(byProduct[id], ip.col)
		})
		panels = append(panels, impactPanel(ip.col, ip.title, ids, values))
	}
	return drawPanels(titleOr(c.spec, "Product Comparison"), panels), nil
}

// End-of-life treatment shares, passed through as extra activity columns.
const (
	ColRecyclingRate    = "recycling_rate"
	ColLandfillRate     = "landfill_rate"
	ColIncinerationRate = "incineration_rate"
)

// EndOfLife shows mean treatment rates over a product's end-of-life rows.
type EndOfLife struct {
	spec domain.ChartSpec
}

func (c *EndOfLife) Plot(table domain.ImpactTable) (*gg.Context, error) {
	rows := lo.Filter(productRows(table, c.spec.ProductID), func(r domain.ImpactRecord, _ int) bool {
		return domain.NormalizeStage(r.LifeCycleStage) == domain.StageEndOfLife
	})

	rates := []struct {
		col   string
		label string
	}{
		{ColRecyclingRate, "Recycling"},
		{ColLandfillRate, "Landfill"},
		{ColIncinerationRate, "Incineration"},
	}

	var labels []string
	var values []float64
	for _, rate := range rates {
		var observed []float64
		for _, r := range rows {
			if v, ok := r.Number(rate.col); ok {
				observed = append(observed, v)
			}
		}
		if len(observed) == 0 {
			continue
		}
		labels = append(labels, rate.label)
		values = append(values, stat.Mean(observed, nil))
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: end-of-life: product %s has no treatment rates", domain.ErrNoChartData, c.spec.ProductID)
	}

	p := panel{Title: "Mean rate", Labels: labels, Values: values, Color: otherColor}
	return drawPanels(titleOr(c.spec, "End-of-Life Management for Product "+c.spec.ProductID), []panel{p}), nil
}

// CorrelationColumns 相关性矩阵使用的数值列
var CorrelationColumns = []string{
	domain.ColCarbonImpact,
	domain.ColEnergyImpact,
	domain.ColWaterImpact,
	domain.ColWasteGenerated,
}

// Correlation draws the Pearson correlation matrix of the impact categories.
type Correlation struct {
	spec domain.ChartSpec
}

func (c *Correlation) Plot(table domain.ImpactTable) (*gg.Context, error) {
	if table.Len() < 2 {
		return nil, fmt.Errorf("%w: correlation needs at least two rows", domain.ErrNoChartData)
	}
	return drawHeatmap(titleOr(c.spec, "Correlation Matrix"), CorrelationColumns, CorrelationMatrix(table, CorrelationColumns)), nil
}

// CorrelationMatrix 计算各列两两之间的 Pearson 相关系数
// 方差为 0 的列与其他列的相关系数为 NaN
func CorrelationMatrix(table domain.ImpactTable, cols []string) [][]float64 {
	series := make([][]float64, len(cols))
	for i, col := range cols {
		series[i] = lo.Map(table.Records, func(r domain.ImpactRecord, _ int) float64 {
			v, _ := r.Number(col)
			return v
		})
	}

	matrix := make([][]float64, len(cols))
	for i := range cols {
		matrix[i] = make([]float64, len(cols))
		for j := range cols {
			matrix[i][j] = stat.Correlation(series[i], series[j], nil)
		}
	}
	return matrix
}

func productRows(table domain.ImpactTable, productID string) []domain.ImpactRecord {
	return lo.Filter(table.Records, func(r domain.ImpactRecord, _ int) bool {
		return r.ProductID == productID
	})
}

func sumOf(rows []domain.ImpactRecord, col string) float64 {
	return lo.SumBy(rows, func(r domain.ImpactRecord) float64 {
		v, _ := r.Number(col)
		return v
	})
}

func titleOr(spec domain.ChartSpec, fallback string) string {
	if spec.Title != "" {
		return spec.Title
	}
	return fallback
}
