package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

type historyOptions struct {
	limit int
	runID string
}

func newHistoryCmd(st *rootState) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analysis runs",
		Long: `List analysis runs recorded in the run store, newest first.
With --run, print the product totals of a single run.

Examples:
  lca history --limit 5
  lca history --run 7d4c1c9e-4a8b-4f52-9a55-0f1c2a3b4c5d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, st, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.limit, "limit", 20, "maximum runs to list (0 = all)")
	f.StringVar(&opts.runID, "run", "", "show one run by id")
	return cmd
}

func runHistory(cmd *cobra.Command, st *rootState, opts *historyOptions) error {
	store, err := st.di.Store()
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("%w: run storage is disabled (LCA_STORAGE_ENABLED=false)", domain.ErrInvalidArgument)
	}
	out := cmd.OutOrStdout()

	if opts.runID != "" {
		id, err := uuid.Parse(opts.runID)
		if err != nil {
			return fmt.Errorf("%w: run id %q: %v", domain.ErrInvalidArgument, opts.runID, err)
		}
		run, err := store.RunByID(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run %s (%s by %s, trace %s) %s -> %s\n",
			run.ID, run.Trigger, run.Operator, run.TraceID,
			run.StartedAt.Format(time.RFC3339), run.FinishedAt.Format(time.RFC3339))
		printTotals(out, run.Totals)
		return nil
	}

	runs, err := store.ListRuns(cmd.Context(), opts.limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}

	tw := newTable(out)
	fmt.Fprintln(tw, "RUN\tSTARTED\tTRIGGER\tOPERATOR\tROWS\tSKIPPED\tUNMATCHED\tINPUT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Trigger, r.Operator,
			r.ActivityRows, r.SkippedRows, r.Unmatched, r.ActivityPath)
	}
	return tw.Flush()
}
