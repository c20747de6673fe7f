package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func printTotals(out io.Writer, totals []domain.TotalImpact) {
	tw := newTable(out)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tCARBON\tENERGY\tWATER\tWASTE")
	for _, t := range totals {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ProductID, t.ProductName,
			num(t.Impacts.Carbon), num(t.Impacts.Energy), num(t.Impacts.Water), num(t.WasteGeneratedKg))
	}
	_ = tw.Flush()
}
