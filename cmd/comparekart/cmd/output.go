package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/nkhattar/comparekart/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printComparisonTable(items []domain.ComparisonItem) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("NAME\tPLATFORM\tPRICE\tFINAL\tDELIVERY\tBEST\tFASTEST\tSAVINGS\n")
	for i := range items {
		for j := range items[i].Offers {
			o := &items[i].Offers[j]
			tw.writef("%s\t%s\t%.2f\t%.2f\t%s\t%s\t%s\t%.2f\n",
				truncate(items[i].Name, 40),
				o.Platform,
				o.Price,
				o.FinalPrice,
				o.Delivery.String(),
				mark(o.IsCheapest),
				mark(o.IsFastest),
				items[i].Savings,
			)
		}
	}
	return tw.finish()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func mark(b bool) string {
	if b {
		return "*"
	}
	return ""
}
