package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/ougirez/mapa-innovacio/internal/service/search"
)

var validFormats = []string{"json", "text"}

func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}

func writeJSON(w io.Writer, v any) error {
	enc := sonic.ConfigDefault.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatStatsText prints the load summary followed by one row per zone.
func formatStatsText(w io.Writer, stats CLIStats) {
	fmt.Fprintf(w, "Load %s: %d programs, %d centres, %d zones\n",
		stats.Status.LoadID, stats.Status.Programs, stats.Status.Centres, stats.Status.Zones)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tCATEGORY\tCENTRES\tPART\tBASE\tPERCENT\tDENSITY")
	for _, z := range stats.Zones {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%.4f\n",
			z.Key, z.Name, z.CategoryName, z.CentresPart, z.EstudisPart, z.EstudisBase, z.Percent.StringFixed(1), z.Density)
	}
	tw.Flush()
}

func formatResultsText(w io.Writer, results []search.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tSCORE\tNAME")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%.3f\t%s\n", r.ID, r.Kind, r.Score, resultName(r))
	}
	tw.Flush()
}

func resultName(r search.Result) string {
	switch doc := r.Doc.(type) {
	case *search.ProgramDoc:
		return doc.Name
	case *search.CentreDoc:
		return doc.Name
	}
	return ""
}
