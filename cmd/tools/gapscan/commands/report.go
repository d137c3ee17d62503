package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/soltixdb/gapscan/internal/analytics/gaps"
	"github.com/soltixdb/gapscan/internal/services"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// NewReportCommand builds "gapscan report"
func NewReportCommand() *cobra.Command {
	var (
		in     inputFlags
		format string
	)

	command := &cobra.Command{
		Use:   "report",
		Short: "Print the full gap report of a CSV or XLSX table",
		Example: `  gapscan report --input prices.csv --window 20 --mode percentage
  gapscan report -i hurst.xlsx --sheet daily --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("unsupported format %q (supported: table, json)", format)
			}
			logger := cliLogger(cmd)
			svc, req, err := in.load(loadConfig(), logger)
			if err != nil {
				return err
			}
			result, err := svc.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeReportTable(cmd.OutOrStdout(), result)
		},
	}

	in.register(command)
	command.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	return command
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeReportTable prints one aligned row per column
func writeReportTable(w io.Writer, result *services.AnalysisResult) error {
	report := result.Report
	fmt.Fprintf(w, "rows: %d  window: %d\n\n", report.Rows, report.Window)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "COLUMN\tSPAN START\tSPAN END\tSPAN\tMISSING\tMISSING %\tGAPS\tLONGEST\tREPEATS\tVALID WIN\tVALID WIN %\t")
	for _, c := range report.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%d\t%d\t%d\t%s\t%s\t\n",
			c.Column,
			formatTime(c.SpanStart),
			formatTime(c.SpanEnd),
			c.SpanLength,
			c.MissingCount,
			formatPercent(c.MissingPercentage),
			c.RunStats.Count,
			c.RunStats.Longest,
			c.Repeats,
			formatValidWindows(c),
			formatPercent(c.ValidWindowPercentage),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if result.Mode == gaps.ModeMask {
		return nil
	}
	// percentage mode adds the gap-length distribution
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "COLUMN\tGAPS\tMEAN\tMEDIAN\tP95\tLONGEST\t")
	for _, c := range report.Columns {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%d\t\n",
			c.Column, c.RunStats.Count, c.RunStats.Mean, c.RunStats.Median, c.RunStats.P95, c.RunStats.Longest)
	}
	return tw.Flush()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

func formatPercent(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

func formatValidWindows(c gaps.ColumnReport) string {
	if c.EvaluableWindows == 0 {
		return "-"
	}
	return strings.Join([]string{strconv.Itoa(c.ValidWindows), strconv.Itoa(c.EvaluableWindows)}, "/")
}
