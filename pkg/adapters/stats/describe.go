// Package stats computes descriptive statistics for tabular datasets.
package stats

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

// missingValues cells treated as missing when a CSV is loaded
var missingValues = []string{"", "NA", "NaN", "<nil>"}

// Describer loads datasets and summarizes their numeric columns.
type Describer struct {
	log *zap.Logger
}

// NewDescriber creates a Describer.
func NewDescriber(log *zap.Logger) *Describer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Describer{log: log}
}

// DescribeFile loads a CSV file and describes the selected columns.
func (d *Describer) DescribeFile(ctx context.Context, path string, columns []string) ([]domain.ColumnStatistics, error) {
	const op = "stats.Describer.DescribeFile"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	out, err := d.DescribeReader(f, columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, path, err)
	}
	return out, nil
}

// DescribeReader loads CSV data from r and describes the selected columns.
func (d *Describer) DescribeReader(r io.Reader, columns []string) ([]domain.ColumnStatistics, error) {
	df := dataframe.ReadCSV(r, dataframe.NaNValues(missingValues))
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}
	out, err := Describe(df, columns)
	if err != nil {
		return nil, err
	}
	for _, s := range out {
		if s.Filled > 0 {
			d.log.Debug("missing values filled with column mean",
				zap.String("column", s.Column),
				zap.Int("filled", s.Filled),
				zap.Float64("mean", s.Mean))
		}
	}
	return out, nil
}

// Describe 计算所选数值列的描述性统计
// 缺失值先用该列均值填补，再统计 min/max/mean/median/样本标准差。
// columns 为空时统计全部数值列。
func Describe(df dataframe.DataFrame, columns []string) ([]domain.ColumnStatistics, error) {
	if len(columns) == 0 {
		columns = NumericColumns(df)
	}

	names := make(map[string]struct{}, df.Ncol())
	for _, n := range df.Names() {
		names[n] = struct{}{}
	}

	out := make([]domain.ColumnStatistics, 0, len(columns))
	for _, col := range columns {
		if _, ok := names[col]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumn, col)
		}
		s := df.Col(col)
		if !isNumeric(s) {
			return nil, fmt.Errorf("%w: column %s is not numeric", domain.ErrInvalidArgument, col)
		}
		out = append(out, describeSeries(col, s))
	}
	return out, nil
}

// NumericColumns 返回数据框中的数值列 (按原列顺序)
func NumericColumns(df dataframe.DataFrame) []string {
	var cols []string
	for _, n := range df.Names() {
		if isNumeric(df.Col(n)) {
			cols = append(cols, n)
		}
	}
	return cols
}

func isNumeric(s series.Series) bool {
	return s.Type() == series.Float || s.Type() == series.Int
}

func describeSeries(col string, s series.Series) domain.ColumnStatistics {
	values := s.Float()
	observed := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}

	st := domain.ColumnStatistics{Column: col, Count: len(values)}
	if len(observed) == 0 {
		nan := math.NaN()
		st.Min, st.Max, st.Mean, st.Median, st.StdDev = nan, nan, nan, nan, nan
		return st
	}

	mean := series.Floats(observed).Mean()
	filledValues := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			v = mean
			st.Filled++
		}
		filledValues[i] = v
	}

	filled := series.New(filledValues, series.Float, col)
	st.Min = filled.Min()
	st.Max = filled.Max()
	st.Mean = filled.Mean()
	st.Median = filled.Median()
	st.StdDev = filled.StdDev()
	return st
}

// StatisticsColumns 统计结果导出列
var StatisticsColumns = []string{"column", "count", "filled", "min", "max", "mean", "median", "std"}

// ToDataFrame 将统计结果转换为数据框，每列一行
func ToDataFrame(stats []domain.ColumnStatistics) dataframe.DataFrame {
	var (
		cols    = make([]string, len(stats))
		counts  = make([]int, len(stats))
		filled  = make([]int, len(stats))
		mins    = make([]float64, len(stats))
		maxs    = make([]float64, len(stats))
		means   = make([]float64, len(stats))
		medians = make([]float64, len(stats))
		stds    = make([]float64, len(stats))
	)
	for i, s := range stats {
		cols[i] = s.Column
		counts[i] = s.Count
		filled[i] = s.Filled
		mins[i] = s.Min
		maxs[i] = s.Max
		means[i] = s.Mean
		medians[i] = s.Median
		stds[i] = s.StdDev
	}
	return dataframe.New(
		series.New(cols, series.String, StatisticsColumns[0]),
		series.New(counts, series.Int, StatisticsColumns[1]),
		series.New(filled, series.Int, StatisticsColumns[2]),
		series.New(mins, series.Float, StatisticsColumns[3]),
		series.New(maxs, series.Float, StatisticsColumns[4]),
		series.New(means, series.Float, StatisticsColumns[5]),
		series.New(medians, series.Float, StatisticsColumns[6]),
		series.New(stds, series.Float, StatisticsColumns[7]),
	)
}

// WriteCSV 导出统计结果
func WriteCSV(w io.Writer, stats []domain.ColumnStatistics) error {
	return ToDataFrame(stats).WriteCSV(w)
}
