package gaps

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/soltixdb/gapscan/internal/frame"
	"golang.org/x/sync/errgroup"
)

// Options configures Analyze.
type Options struct {
	// Window is the trailing window length for the valid-window statistic
	Window int

	// Workers bounds the number of columns analyzed concurrently.
	// Zero means GOMAXPROCS.
	Workers int
}

// RunStats summarizes gap lengths of one column.
type RunStats struct {
	Count   int     `json:"count"`
	Longest int     `json:"longest"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	P95     float64 `json:"p95"`
}

// ColumnReport holds every missingness statistic for one column.
// Pointer fields are nil when the statistic is undefined for the column.
type ColumnReport struct {
	Column                string     `json:"column"`
	SpanStart             *time.Time `json:"span_start,omitempty"`
	SpanEnd               *time.Time `json:"span_end,omitempty"`
	SpanLength            int        `json:"span_length"`
	MissingCount          int        `json:"missing_count"`
	MissingPercentage     *float64   `json:"missing_percentage"`
	Runs                  []GapRun   `json:"runs"`
	RunStats              RunStats   `json:"run_stats"`
	Repeats               int        `json:"repeats"`
	ValidWindows          int        `json:"valid_windows"`
	EvaluableWindows      int        `json:"evaluable_windows"`
	ValidWindowPercentage *float64   `json:"valid_window_percentage"`
}

// Report is the result of Analyze, one entry per column in table order.
type Report struct {
	Window  int            `json:"window"`
	Rows    int            `json:"rows"`
	Columns []ColumnReport `json:"columns"`
}

// Column returns the report of the named column.
func (r *Report) Column(name string) (ColumnReport, bool) {
	for _, c := range r.Columns {
		if c.Column == name {
			return c, true
		}
	}
	return ColumnReport{}, false
}

// Analyze builds the full report for t. Columns are independent and are
// analyzed concurrently; the report keeps table column order.
func Analyze(ctx context.Context, t *frame.Table, opts Options) (*Report, error) {
	if opts.Window < 1 {
		return nil, fmt.Errorf("%w: window length %d", ErrInvalidArgument, opts.Window)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	reports := make([]ColumnReport, t.Width())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for c := 0; c < t.Width(); c++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[c] = analyzeColumn(t.ColumnAt(c), opts.Window)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Report{Window: opts.Window, Rows: t.Len(), Columns: reports}, nil
}

func analyzeColumn(s frame.Series, w int) ColumnReport {
	rep := ColumnReport{Column: s.Name, Runs: []GapRun{}}

	span := ObservedSpan(s)
	if !span.Empty() {
		start, end := s.Index[span.Start], s.Index[span.End]
		rep.SpanStart, rep.SpanEnd = &start, &end
		rep.SpanLength = span.Len()
		rep.MissingCount = Restrict(s).CountMissing()
	}
	rep.MissingPercentage = defined(seriesMissingPercentage(s))

	if runs := GapRuns(s); len(runs) > 0 {
		rep.Runs = runs
		rep.RunStats = summarizeRuns(runs)
	}

	for _, repeat := range repeatFlags(s) {
		if repeat {
			rep.Repeats++
		}
	}

	counts := windowCounts(s, w)
	for _, v := range counts {
		if v >= 0 {
			rep.EvaluableWindows++
			if v == 0 {
				rep.ValidWindows++
			}
		}
	}
	rep.ValidWindowPercentage = defined(validPercentage(counts))

	return rep
}

func summarizeRuns(runs []GapRun) RunStats {
	lengths := make(stats.Float64Data, len(runs))
	for i, r := range runs {
		lengths[i] = float64(r.Length)
	}

	out := RunStats{Count: len(runs)}
	if longest, err := lengths.Max(); err == nil {
		out.Longest = int(longest)
	}
	if mean, err := lengths.Mean(); err == nil {
		out.Mean = mean
	}
	if median, err := lengths.Median(); err == nil {
		out.Median = median
	}
	if p95, err := lengths.Percentile(95); err == nil {
		out.P95 = p95
	}
	return out
}

func defined(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
