package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/pagination"
)

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes rows under header, or v as JSON when -o json is set.
func (a *app) printTable(v any, header []string, rows [][]string) error {
	if a.flags.output == outputJSON {
		return a.printJSON(v)
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func printMeta(w io.Writer, meta pagination.Meta) {
	fmt.Fprintf(w, "page %d of %d (%d total)\n", meta.Page, meta.TotalPages, meta.Total)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// optional returns nil for an empty flag value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
