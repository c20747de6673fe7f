package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

// CSVActivityIngestor 实现 ports.ActivityIngestor 接口
// 专门处理 CSV 格式的活动表
type CSVActivityIngestor struct {
	comma rune
	log   *zap.Logger
}

// CSVOption configures a CSVActivityIngestor.
type CSVOption func(*CSVActivityIngestor)

// WithDelimiter sets the field delimiter (default ',').
func WithDelimiter(r rune) CSVOption {
	return func(c *CSVActivityIngestor) {
		if r != 0 {
			c.comma = r
		}
	}
}

// WithIngestLogger sets the logger used for per-row diagnostics.
func WithIngestLogger(log *zap.Logger) CSVOption {
	return func(c *CSVActivityIngestor) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCSVActivityIngestor 创建 CSV 活动表摄入器实例
func NewCSVActivityIngestor(opts ...CSVOption) *CSVActivityIngestor {
	c := &CSVActivityIngestor{comma: ',', log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// knownColumns 映射到 ActivityRecord 固定字段的列，其余列进入 Extras
var knownColumns = append(slices.Clone(domain.RequiredActivityColumns), domain.ColWasteGenerated)

// IngestFile 实现 ports.ActivityIngestor.IngestFile
func (c *CSVActivityIngestor) IngestFile(ctx context.Context, path string) (domain.ActivityTable, *domain.IngestionResult, error) {
	const op = "ingest.CSVActivityIngestor.IngestFile"

	f, err := os.Open(path)
	if err != nil {
		return domain.ActivityTable{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	table, result, err := c.IngestStream(ctx, f)
	if err != nil {
		return table, result, fmt.Errorf("%s: %s: %w", op, path, err)
	}
	c.log.Debug("activity table loaded",
		zap.String("path", path),
		zap.Int("rows", table.Len()),
		zap.Int("failed", result.Failed))
	return table, result, nil
}

// IngestStream 实现 ports.ActivityIngestor.IngestStream
// 逐行读取 CSV 流；坏行记入 result 并跳过
func (c *CSVActivityIngestor) IngestStream(ctx context.Context, stream io.Reader) (domain.ActivityTable, *domain.IngestionResult, error) {
	reader := csv.NewReader(stream)
	reader.Comma = c.comma
	// 允许变长字段，避免因某些行缺少非必填字段报错
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &domain.IngestionResult{}
	var table domain.ActivityTable

	// 1. Read Header
	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return table, result, nil
		}
		return table, nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	headerMap := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h))
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := headerMap[name]; !dup {
			table.Columns = append(table.Columns, name)
		}
		headerMap[name] = i
	}

	// Validate required columns
	if err := validateHeaders(headerMap); err != nil {
		return table, nil, err
	}

	// 2. Read Records
	for {
		if err := ctx.Err(); err != nil {
			return table, result, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		result.Total++
		line := result.Total + 1 // +1 for header
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("csv read error at line %d: %v", line, err))
			continue
		}

		activity, err := parseRecord(record, headerMap, table.Columns)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		table.Records = append(table.Records, activity)
		result.Success++
	}

	return table, result, nil
}

// missingTokens 视为缺失的单元格文本 (与 pandas read_csv 默认 na_values 一致)
var missingTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isMissing(raw string) bool {
	_, ok := missingTokens[raw]
	return ok
}

func validateHeaders(headerMap map[string]int) error {
	var missing []string
	for _, req := range domain.RequiredActivityColumns {
		if _, ok := headerMap[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

func parseRecord(record []string, headerMap map[string]int, columns []string) (domain.ActivityRecord, error) {
	// Helper to get value gracefully
	get := func(col string) string {
		if idx, ok := headerMap[col]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	var errs []error
	number := func(col string) float64 {
		raw := get(col)
		if isMissing(raw) {
			return 0 // 缺失值按 0 处理
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %q", col, raw))
			return 0
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("non-finite %s: %q", col, raw))
			return 0
		}
		if v < 0 {
			errs = append(errs, fmt.Errorf("negative %s: %v", col, v))
		}
		return v
	}

	r := domain.ActivityRecord{
		ProductID:             get(domain.ColProductID),
		ProductName:           get(domain.ColProductName),
		LifeCycleStage:        get(domain.ColLifeCycleStage),
		MaterialType:          get(domain.ColMaterialType),
		QuantityKg:            number(domain.ColQuantityKg),
		CarbonFootprintKgCO2e: number(domain.ColCarbonFootprint),
		EnergyConsumptionKWh:  number(domain.ColEnergyConsumption),
		WaterUsageLiters:      number(domain.ColWaterUsage),
		WasteGeneratedKg:      number(domain.ColWasteGenerated),
	}
	if r.ProductID == "" {
		errs = append(errs, errors.New("product_id is empty"))
	}
	if len(errs) > 0 {
		return domain.ActivityRecord{}, errors.Join(errs...)
	}

	for _, col := range columns {
		if slices.Contains(knownColumns, col) {
			continue
		}
		if r.Extras == nil {
			r.Extras = make(map[string]string)
		}
		r.Extras[col] = get(col)
	}
	return r, nil
}
