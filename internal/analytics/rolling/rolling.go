// Package rolling provides trailing moving averages over sequences, series
// and tables. Only complete windows are produced: there is no padding and no
// partial window at either edge.
package rolling

import (
	"errors"
	"fmt"
	"time"

	"github.com/soltixdb/gapscan/internal/frame"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidWindow is returned for a window length below 1.
var ErrInvalidWindow = errors.New("window length must be at least 1")

// Mean returns the trailing moving average of values over window w.
// Output position i holds the mean of values[i : i+w], so the result has
// len(values)-w+1 entries. A window longer than the input yields an empty,
// non-nil result.
func Mean(values []float64, w int) ([]float64, error) {
	if w < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, w)
	}
	n := len(values) - w + 1
	if n <= 0 {
		return []float64{}, nil
	}

	// Each window is summed on its own: a running sum would let NaN, Inf
	// or a large magnitude leak into windows that do not contain it.
	out := make([]float64, n)
	for i := range out {
		out[i] = floats.Sum(values[i : i+w])
	}
	floats.Scale(1/float64(w), out)
	return out, nil
}

// MeanSeries is Mean over a series. The result is indexed by the input
// index starting at position w-1, the last row of each window.
func MeanSeries(s frame.Series, w int) (frame.Series, error) {
	means, err := Mean(s.Values, w)
	if err != nil {
		return frame.Series{}, err
	}
	index := []time.Time{}
	if len(means) > 0 {
		index = s.Index[w-1:]
	}
	return frame.Series{Name: s.Name, Index: index, Values: means}, nil
}

// MeanTable applies Mean column by column. The output keeps the input index:
// row j+w-1 holds the mean of rows j..j+w-1 and the first w-1 rows are
// missing. A table with fewer than w rows yields all-missing columns.
func MeanTable(t *frame.Table, w int) (*frame.Table, error) {
	if w < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, w)
	}
	return t.MapColumns(func(s frame.Series) []float64 {
		out := make([]float64, s.Len())
		for i := range out {
			out[i] = frame.Missing()
		}
		if means, _ := Mean(s.Values, w); len(means) > 0 {
			copy(out[w-1:], means)
		}
		return out
	}), nil
}
