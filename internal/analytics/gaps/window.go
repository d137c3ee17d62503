package gaps

import (
	"fmt"
	"math"

	"github.com/soltixdb/gapscan/internal/analytics/rolling"
	"github.com/soltixdb/gapscan/internal/frame"
)

// MissingByWindow counts, at every row, the missing values among the w rows
// ending there. A count is only kept when the whole window lies inside the
// column's observed span, i.e. from the w-th observed row through the last
// one; every other cell is missing. A span shorter than w leaves the column
// entirely missing.
func MissingByWindow(t *frame.Table, w int) (*frame.Table, error) {
	if w < 1 {
		return nil, fmt.Errorf("%w: window length %d", ErrInvalidArgument, w)
	}
	return t.MapColumns(func(s frame.Series) []float64 {
		return windowCounts(s, w)
	}), nil
}

// windowCounts runs the moving average over the missing indicator of the
// whole column, scales it back to a count and drops every window that
// reaches outside the observed span.
func windowCounts(s frame.Series, w int) []float64 {
	out := missingColumn(s.Len())

	span := ObservedSpan(s)
	if span.Len() < w {
		return out
	}

	indicator := make([]float64, s.Len())
	for r, v := range s.Values {
		if frame.IsMissing(v) {
			indicator[r] = 1
		}
	}
	means, err := rolling.Mean(indicator, w)
	if err != nil {
		return out
	}

	// means[i] covers rows i..i+w-1 and lands on row i+w-1.
	for r := span.Start + w - 1; r <= span.End; r++ {
		out[r] = math.Round(means[r-w+1] * float64(w))
	}
	return out
}
