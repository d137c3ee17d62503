// Package gaps analyzes the distribution of missing values in time-indexed
// multi-series tables.
//
// Every statistic is computed per column over that column's observed span,
// the rows from its first to its last non-missing value. Rows before a
// series starts or after it ends (a ticker not yet listed, or delisted) are
// never counted as missing data.
package gaps

import "github.com/soltixdb/gapscan/internal/frame"

// Span is the inclusive row range [Start, End] between the first and the
// last observation of a series. A series with no observation has an empty
// span with Start = End = -1.
type Span struct {
	Start int
	End   int
}

// Empty reports whether the series had no observation at all.
func (s Span) Empty() bool {
	return s.Start < 0
}

// Len returns the number of rows in the span.
func (s Span) Len() int {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start + 1
}

// Contains reports whether row r lies inside the span.
func (s Span) Contains(r int) bool {
	return !s.Empty() && r >= s.Start && r <= s.End
}

// ObservedSpan returns the span of a series.
func ObservedSpan(s frame.Series) Span {
	first := s.FirstValid()
	if first < 0 {
		return Span{Start: -1, End: -1}
	}
	return Span{Start: first, End: s.LastValid()}
}

// Restrict returns the sub-series covered by the observed span. An
// all-missing series yields an empty series.
func Restrict(s frame.Series) frame.Series {
	sp := ObservedSpan(s)
	if sp.Empty() {
		return s.Sub(0, 0)
	}
	return s.Sub(sp.Start, sp.End+1)
}

// missingColumn returns n missing values.
func missingColumn(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = frame.Missing()
	}
	return out
}
