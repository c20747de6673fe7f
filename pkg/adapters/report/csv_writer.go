// Package report writes result tables to delimited-text files.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

// CSVWriter implements ports.ReportWriter.
type CSVWriter struct {
	log *zap.Logger
}

// NewCSVWriter creates a CSV report writer.
func NewCSVWriter(log *zap.Logger) *CSVWriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &CSVWriter{log: log}
}

// WriteImpacts writes the detailed impact table, columns in table order.
func (w *CSVWriter) WriteImpacts(ctx context.Context, path string, table domain.ImpactTable) error {
	return w.writeFile(ctx, path, func(out io.Writer) error {
		return EncodeImpacts(out, table)
	})
}

// WriteTotals writes one row per product.
func (w *CSVWriter) WriteTotals(ctx context.Context, path string, totals []domain.TotalImpact) error {
	return w.writeFile(ctx, path, func(out io.Writer) error {
		return EncodeTotals(out, totals)
	})
}

// WriteComparison writes comparison rows including relative difference columns.
func (w *CSVWriter) WriteComparison(ctx context.Context, path string, rows []domain.Comparison) error {
	return w.writeFile(ctx, path, func(out io.Writer) error {
		return EncodeComparison(out, rows)
	})
}

func (w *CSVWriter) writeFile(ctx context.Context, path string, encode func(io.Writer) error) (err error) {
	const op = "report.CSVWriter.writeFile"

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%s: create output dir: %w", op, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%s: close %s: %w", op, path, cerr)
		}
	}()

	if err := encode(f); err != nil {
		return fmt.Errorf("%s: %s: %w", op, path, err)
	}
	w.log.Debug("report written", zap.String("path", path))
	return nil
}

// EncodeImpacts writes an impact table as CSV.
func EncodeImpacts(out io.Writer, table domain.ImpactTable) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(table.Columns); err != nil {
		return err
	}

	row := make([]string, len(table.Columns))
	for _, r := range table.Records {
		for i, col := range table.Columns {
			row[i] = impactCell(r, col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func impactCell(r domain.ImpactRecord, col string) string {
	if v, ok := r.Impacts.Get(col); ok {
		return formatFloat(v)
	}
	v, _ := r.Text(col)
	return v
}

// EncodeTotals writes product totals as CSV.
func EncodeTotals(out io.Writer, totals []domain.TotalImpact) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(domain.TotalColumns); err != nil {
		return err
	}
	for _, t := range totals {
		if err := cw.Write(totalRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeComparison writes comparison rows as CSV.
func EncodeComparison(out io.Writer, rows []domain.Comparison) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(domain.ComparisonColumns); err != nil {
		return err
	}
	for _, c := range rows {
		row := append(totalRow(c.TotalImpact),
			formatFloat(c.RelativeDiff.Carbon),
			formatFloat(c.RelativeDiff.Energy),
			formatFloat(c.RelativeDiff.Water),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func totalRow(t domain.TotalImpact) []string {
	return []string{
		t.ProductID,
		t.ProductName,
		formatFloat(t.Impacts.Carbon),
		formatFloat(t.Impacts.Energy),
		formatFloat(t.Impacts.Water),
		formatFloat(t.WasteGeneratedKg),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
