package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// table prints aligned columns.
type table struct {
	w *tabwriter.Writer
}

func newTable(headers ...string) *table {
	return newTableTo(os.Stdout, headers...)
}

func newTableTo(out io.Writer, headers ...string) *table {
	t := &table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	t.row(headers...)
	t.rule(len(headers))
	return t
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.w, strings.Join(cols, "\t"))
}

func (t *table) rule(n int) {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = "──"
	}
	t.row(cols...)
}

func (t *table) flush() error {
	return t.w.Flush()
}

func printSection(w io.Writer, title, body string) {
	sep := strings.Repeat("─", 60)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintf(w, "%s\n%s\n%s\n%s\n", sep, title, sep, body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

const timeLayout = "2006-01-02 15:04:05"
