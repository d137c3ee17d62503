package gaps

import (
	"time"

	"github.com/soltixdb/gapscan/internal/frame"
)

// GapRun is a maximal block of consecutive missing values inside a span.
type GapRun struct {
	Start  time.Time `json:"start"`
	Row    int       `json:"row"` // position of the first missing row in the table
	Length int       `json:"length"`
}

// GapRuns run-length encodes the missing values inside the observed span
// of s. Runs are returned in time order.
func GapRuns(s frame.Series) []GapRun {
	sp := ObservedSpan(s)
	if sp.Empty() {
		return nil
	}

	var runs []GapRun
	start := -1
	for r := sp.Start; r <= sp.End; r++ {
		if frame.IsMissing(s.Values[r]) {
			if start < 0 {
				start = r
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, GapRun{Start: s.Index[start], Row: start, Length: r - start})
			start = -1
		}
	}
	// close a run that reaches the end of the span
	if start >= 0 {
		runs = append(runs, GapRun{Start: s.Index[start], Row: start, Length: sp.End - start + 1})
	}
	return runs
}

// ContiguousGaps returns a table shaped like t where the first row of each
// gap run holds the run length and every other cell is missing.
//
// For example, with c1 observed from the first row and c2 from the fourth:
//
//	            c1    c2               c1   c2
//	1980-12-12  0.81   NaN             NaN  NaN
//	1980-12-15  1.77   NaN             NaN  NaN
//	1980-12-16 -0.50   NaN             NaN  NaN
//	1980-12-17   NaN  0.01     =>      2.0  NaN
//	1980-12-18   NaN -1.06             NaN  NaN
//	1980-12-19 -1.17  0.62             NaN  NaN
//	1980-12-22   NaN  0.55             1.0  NaN
//	1980-12-23 -0.93 -0.54             NaN  NaN
//	1980-12-24  1.58   NaN             NaN  1.0
//	1980-12-26 -0.13  1.11             NaN  NaN
func ContiguousGaps(t *frame.Table) *frame.Table {
	return t.MapColumns(func(s frame.Series) []float64 {
		out := missingColumn(s.Len())
		for _, run := range GapRuns(s) {
			out[run.Row] = float64(run.Length)
		}
		return out
	})
}
