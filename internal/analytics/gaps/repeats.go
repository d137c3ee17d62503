package gaps

import "github.com/soltixdb/gapscan/internal/frame"

// Repeats flags rows whose value equals the value of the previous row in the
// same column, a hint of stale or forward-filled data. Adjacency is by row
// position, not by elapsed time. A missing value equals nothing, itself
// included, so runs of missing values are never flagged. The first row is
// always false.
func Repeats(t *frame.Table) *frame.BoolTable {
	data := make([][]bool, t.Width())
	for c := range data {
		data[c] = repeatFlags(t.ColumnAt(c))
	}
	return frame.NewBoolTable(t, data)
}

// repeatFlags marks each position of s that repeats its predecessor.
func repeatFlags(s frame.Series) []bool {
	flags := make([]bool, s.Len())
	for r := 1; r < len(flags); r++ {
		flags[r] = s.Values[r]-s.Values[r-1] == 0
	}
	return flags
}
