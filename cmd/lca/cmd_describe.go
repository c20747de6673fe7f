package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/renjie/prism-lca/pkg/adapters/stats"
	"github.com/renjie/prism-lca/pkg/core/domain"
)

type describeOptions struct {
	file    string
	columns []string
	out     string
}

func newDescribeCmd(st *rootState) *cobra.Command {
	opts := &describeOptions{}

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Descriptive statistics for the numeric columns of a CSV file",
		Long: `Fill missing numeric values with the column mean, then print count, min, max,
mean, median and sample standard deviation per column.

Examples:
  lca describe --file data/raw/soil_data.csv
  lca describe --file data/raw/sample_data.csv --columns quantity_kg,water_usage_liters --out stats.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDescribe(cmd, st, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.file, "file", "", "CSV file to describe (default from LCA_INPUT_DATA)")
	f.StringSliceVar(&opts.columns, "columns", nil, "columns to describe (default: all numeric)")
	f.StringVar(&opts.out, "out", "", "also export the statistics to this CSV file")
	return cmd
}

func runDescribe(cmd *cobra.Command, st *rootState, opts *describeOptions) (err error) {
	d, err := st.di.Describer()
	if err != nil {
		return err
	}

	path := opts.file
	if path == "" {
		path = st.di.Config().Paths.InputData()
	}

	result, err := d.DescribeFile(cmd.Context(), path, opts.columns)
	if err != nil {
		return err
	}
	printStatistics(cmd, result)

	if opts.out == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(opts.out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := stats.WriteCSV(f, result); err != nil {
		return fmt.Errorf("export statistics: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", opts.out)
	return nil
}

func printStatistics(cmd *cobra.Command, result []domain.ColumnStatistics) {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "COLUMN\tCOUNT\tFILLED\tMIN\tMAX\tMEAN\tMEDIAN\tSTD")
	for _, s := range result {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			s.Column, s.Count, s.Filled, num(s.Min), num(s.Max), num(s.Mean), num(s.Median), num(s.StdDev))
	}
	_ = tw.Flush()
}
