package main

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/renjie/prism-lca/pkg/core/domain"
	"github.com/renjie/prism-lca/pkg/core/services"
)

type compareOptions struct {
	input     string
	factors   string
	ids       []string
	normalize bool
}

func newCompareCmd(st *rootState) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare total impacts of alternative products",
		Long: `Print total impacts of the given products and their percentage difference
from the lowest value in each impact category. Nothing is written to disk.

Examples:
  lca compare --ids P002,P003
  lca compare --ids P001,P002,P003 --normalize`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, st, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.input, "input", "", "activity CSV (default from LCA_INPUT_DATA)")
	f.StringVar(&opts.factors, "factors", "", "impact factor JSON/YAML (default from LCA_IMPACT_FACTORS)")
	f.StringSliceVar(&opts.ids, "ids", nil, "product ids to compare (default from LCA_COMPARISON_IDS)")
	f.BoolVar(&opts.normalize, "normalize", false, "also print impacts scaled to [0, 1]")
	return cmd
}

func runCompare(cmd *cobra.Command, st *rootState, opts *compareOptions) error {
	svc, err := st.di.AnalysisService()
	if err != nil {
		return err
	}

	req, err := st.di.DefaultRequest()
	if err != nil {
		return err
	}
	if opts.input != "" {
		req.ActivityPath = opts.input
	}
	if opts.factors != "" {
		req.FactorPath = opts.factors
	}
	ids := req.ComparisonIDs
	if len(opts.ids) > 0 {
		ids = opts.ids
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: no product ids to compare", domain.ErrInvalidArgument)
	}

	eval, err := svc.Evaluate(cmd.Context(), req.ActivityPath, req.FactorPath)
	if err != nil {
		return err
	}
	rows := eval.Calculator.CompareAlternatives(eval.Impacts.Records, ids)

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, "no matching products")
		return nil
	}

	tw := newTable(out)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tCARBON\tENERGY\tWATER\tCARBON Δ%\tENERGY Δ%\tWATER Δ%")
	for _, c := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ProductID, c.ProductName,
			num(c.Impacts.Carbon), num(c.Impacts.Energy), num(c.Impacts.Water),
			num(c.RelativeDiff.Carbon), num(c.RelativeDiff.Energy), num(c.RelativeDiff.Water))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if opts.normalize {
		totals := lo.Map(rows, func(c domain.Comparison, _ int) domain.TotalImpact { return c.TotalImpact })
		fmt.Fprintln(out)
		fmt.Fprintln(out, "normalized:")
		printTotals(out, services.NormalizeImpacts(totals))
	}
	return nil
}
