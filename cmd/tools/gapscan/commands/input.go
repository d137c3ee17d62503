package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soltixdb/gapscan/internal/config"
	"github.com/soltixdb/gapscan/internal/ingest"
	"github.com/soltixdb/gapscan/internal/logging"
	"github.com/soltixdb/gapscan/internal/services"
)

// inputFlags are shared by every command that analyzes a file
type inputFlags struct {
	input    string
	sheet    string
	timezone string
	window   int
	mode     string
	columns  []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "CSV or XLSX file to analyze")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "XLSX worksheet (default: first sheet)")
	cmd.Flags().StringVar(&f.timezone, "timezone", "", "Zone for index labels without offset (default: analysis.timezone)")
	cmd.Flags().IntVarP(&f.window, "window", "w", 0, "Trailing window length (default: analysis.window_length)")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "Validity output mode: mask or percentage (default: analysis.output_mode)")
	cmd.Flags().StringSliceVarP(&f.columns, "columns", "c", nil, "Analyze only these columns, in this order")
}

// load reads the input table and builds a service without cache or queue
func (f *inputFlags) load(cfg *config.Config, logger *logging.Logger) (*services.GapService, *services.AnalysisRequest, error) {
	if f.input == "" {
		return nil, nil, fmt.Errorf("--input is required")
	}

	analysis := cfg.Analysis
	if f.timezone != "" {
		analysis.Timezone = f.timezone
	}

	opts := []ingest.Option{
		ingest.WithLocation(analysis.GetLocation()),
		ingest.WithMaxRows(analysis.MaxRows),
		ingest.WithLogger(logger),
	}
	if f.sheet != "" {
		opts = append(opts, ingest.WithSheet(f.sheet))
	}

	tbl, err := ingest.Read(f.input, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", f.input, err)
	}
	if len(f.columns) > 0 {
		if tbl, err = tbl.Select(f.columns...); err != nil {
			return nil, nil, err
		}
	}
	logger.Debug("Table loaded", "path", f.input, "rows", tbl.Len(), "columns", tbl.Width())

	svc := services.NewGapService(logger, analysis, nil, nil, "")
	req := &services.AnalysisRequest{Table: tbl, Window: f.window, Mode: f.mode}
	return svc, req, nil
}
