package gaps

import (
	"math"

	"github.com/soltixdb/gapscan/internal/frame"
)

// MissingPercentage returns, per column, the share of missing values inside
// the observed span, in percent. A column with no observation at all has no
// span to divide by and yields NaN.
func MissingPercentage(t *frame.Table) frame.Vector {
	out := frame.Vector{Name: "pcn", Labels: t.Columns(), Values: make([]float64, t.Width())}
	for c := range out.Values {
		out.Values[c] = seriesMissingPercentage(t.ColumnAt(c))
	}
	return out
}

func seriesMissingPercentage(s frame.Series) float64 {
	span := Restrict(s)
	if span.Len() == 0 {
		return math.NaN()
	}
	return float64(span.CountMissing()) / float64(span.Len()) * 100
}
