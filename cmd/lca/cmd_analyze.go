package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

type analyzeOptions struct {
	input      string
	factors    string
	dataDir    string
	figuresDir string
	compare    []string
	lifecycle  string
	endOfLife  string
	charts     []string
	noCharts   bool
	normalize  bool
	operator   string
	batch      string
	traceID    string
}

func newAnalyzeCmd(st *rootState) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis and write result tables and charts",
		Long: `Load the activity table and impact factors, compute detailed and per-product
impacts, write CSV result tables, render PNG charts and record the run.

Examples:
  lca analyze
  lca analyze --input data/raw/sample_data.csv --factors data/raw/impact_factors.yaml
  lca analyze --compare P002,P003 --normalize --charts breakdown,comparison`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, st, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.input, "input", "", "activity CSV (default from LCA_INPUT_DATA)")
	f.StringVar(&opts.factors, "factors", "", "impact factor JSON/YAML (default from LCA_IMPACT_FACTORS)")
	f.StringVar(&opts.dataDir, "data-dir", "", "directory for result tables")
	f.StringVar(&opts.figuresDir, "figures-dir", "", "directory for charts")
	f.StringSliceVar(&opts.compare, "compare", nil, "product ids to compare")
	f.StringVar(&opts.lifecycle, "lifecycle", "", "product id for the lifecycle chart")
	f.StringVar(&opts.endOfLife, "eol", "", "product id for the end-of-life chart")
	f.StringSliceVar(&opts.charts, "charts", nil, "charts to render: breakdown, lifecycle, comparison, end_of_life, correlation")
	f.BoolVar(&opts.noCharts, "no-charts", false, "skip chart rendering")
	f.BoolVar(&opts.normalize, "normalize", false, "also write the normalized totals table")
	f.StringVar(&opts.operator, "operator", "", "operator recorded with the run")
	f.StringVar(&opts.batch, "batch", "", "batch id recorded with the run")
	f.StringVar(&opts.traceID, "trace-id", "", "trace id recorded with the run (default: the run id)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, st *rootState, opts *analyzeOptions) error {
	svc, err := st.di.AnalysisService()
	if err != nil {
		return err
	}
	log, err := st.di.Logger()
	if err != nil {
		return err
	}

	req, err := st.di.DefaultRequest()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("input") {
		req.ActivityPath = opts.input
	}
	if flags.Changed("factors") {
		req.FactorPath = opts.factors
	}
	if flags.Changed("data-dir") {
		req.OutputDataDir = opts.dataDir
	}
	if flags.Changed("figures-dir") {
		req.OutputFigureDir = opts.figuresDir
	}
	if flags.Changed("compare") {
		req.ComparisonIDs = opts.compare
	}
	if flags.Changed("lifecycle") {
		req.LifecycleID = opts.lifecycle
	}
	if flags.Changed("eol") {
		req.EndOfLifeID = opts.endOfLife
	}
	if flags.Changed("charts") {
		kinds, err := domain.ParseChartKinds(opts.charts)
		if err != nil {
			return err
		}
		req.Charts = kinds
	}
	if flags.Changed("normalize") {
		req.Normalize = opts.normalize
	}
	if opts.noCharts {
		req.Charts = []domain.ChartKind{}
		req.LifecycleID, req.EndOfLifeID = "", ""
	}

	ctx := domain.NewContext(cmd.Context(), domain.RunContext{
		Trigger:  domain.RunTriggerManual,
		Operator: opts.operator,
		BatchID:  opts.batch,
		TraceID:  opts.traceID,
	})
	run, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: %d activity rows, %d products", run.ID, run.ActivityRows, len(run.Totals))
	if run.SkippedRows > 0 {
		fmt.Fprintf(out, ", %d rows skipped", run.SkippedRows)
	}
	if run.Unmatched > 0 {
		fmt.Fprintf(out, ", %d rows without impact factor", run.Unmatched)
	}
	fmt.Fprintln(out)
	printTotals(out, run.Totals)
	for _, p := range run.Outputs {
		fmt.Fprintln(out, "wrote", p)
	}
	log.Debug("analyze command done")
	return nil
}
