package gaps

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/soltixdb/gapscan/internal/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func testIndex(n int) []time.Time {
	base := time.Date(1980, 12, 12, 0, 0, 0, 0, time.UTC)
	idx := make([]time.Time, n)
	for i := range idx {
		idx[i] = base.AddDate(0, 0, i)
	}
	return idx
}

// scenarioTable: a is observed on rows 0-9 with gaps at rows 4 and 8,
// b is observed on rows 3-9 with a gap at row 5.
func scenarioTable() *frame.Table {
	a := []float64{1, 2, 3, 4, nan, 6, 7, 8, nan, 10}
	b := []float64{nan, nan, nan, 1, 2, nan, 3, 4, 5, 6}
	return frame.MustNew(testIndex(10), []string{"a", "b"}, [][]float64{a, b})
}

// docTable is the two-ticker example from the ContiguousGaps doc comment.
func docTable() *frame.Table {
	c1 := []float64{0.81, 1.77, -0.50, nan, nan, -1.17, nan, -0.93, 1.58, -0.13}
	c2 := []float64{nan, nan, nan, 0.01, -1.06, 0.62, 0.55, -0.54, nan, 1.11}
	return frame.MustNew(testIndex(10), []string{"c1", "c2"}, [][]float64{c1, c2})
}

func column(t *testing.T, tbl *frame.Table, name string) []float64 {
	t.Helper()
	s, ok := tbl.Column(name)
	require.True(t, ok, "column %s", name)
	return s.Values
}

func assertOnly(t *testing.T, got []float64, want map[int]float64) {
	t.Helper()
	for r, v := range got {
		if w, ok := want[r]; ok {
			assert.Equal(t, w, v, "row %d", r)
		} else {
			assert.True(t, frame.IsMissing(v), "row %d should be missing, got %v", r, v)
		}
	}
}

func TestObservedSpan(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Span
		length int
	}{
		{"fully observed", []float64{1, 2, 3}, Span{0, 2}, 3},
		{"leading and trailing missing", []float64{nan, 1, nan, 2, nan}, Span{1, 3}, 3},
		{"single observation", []float64{nan, 5, nan}, Span{1, 1}, 1},
		{"all missing", []float64{nan, nan}, Span{-1, -1}, 0},
		{"empty", nil, Span{-1, -1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := frame.Series{Index: testIndex(len(tt.values)), Values: tt.values}
			sp := ObservedSpan(s)
			assert.Equal(t, tt.want, sp)
			assert.Equal(t, tt.length, sp.Len())
			assert.Equal(t, tt.length, Restrict(s).Len())
		})
	}
}

func TestContiguousGaps_Scenario(t *testing.T) {
	out := ContiguousGaps(scenarioTable())

	assertOnly(t, column(t, out, "a"), map[int]float64{4: 1, 8: 1})
	assertOnly(t, column(t, out, "b"), map[int]float64{5: 1})
}

func TestContiguousGaps_DocExample(t *testing.T) {
	out := ContiguousGaps(docTable())

	// the three leading gaps of c2 precede its first observation
	assertOnly(t, column(t, out, "c1"), map[int]float64{3: 2, 6: 1})
	assertOnly(t, column(t, out, "c2"), map[int]float64{8: 1})
}

func TestContiguousGaps_TrailingMissingAfterLastObservation(t *testing.T) {
	// rows 4 and 9 missing: row 9 is past the last observation, so it is
	// not a gap and the span is rows 0-8
	a := []float64{1, 2, 3, 4, nan, 6, 7, 8, 9, nan}
	tbl := frame.MustNew(testIndex(10), []string{"a"}, [][]float64{a})

	assertOnly(t, column(t, ContiguousGaps(tbl), "a"), map[int]float64{4: 1})

	pct, _ := MissingPercentage(tbl).Get("a")
	assert.InDelta(t, 100.0/9, pct, 1e-9)
}

func TestGapRuns(t *testing.T) {
	s := frame.Series{
		Index:  testIndex(9),
		Values: []float64{nan, 1, nan, nan, nan, 2, nan, 3, nan},
	}
	runs := GapRuns(s)
	require.Len(t, runs, 2)

	assert.Equal(t, 2, runs[0].Row)
	assert.Equal(t, 3, runs[0].Length)
	assert.True(t, runs[0].Start.Equal(s.Index[2]))
	assert.Equal(t, 6, runs[1].Row)
	assert.Equal(t, 1, runs[1].Length)

	assert.Nil(t, GapRuns(frame.Series{Index: testIndex(2), Values: []float64{nan, nan}}))
}

func TestGapRuns_SumEqualsMissingInSpan(t *testing.T) {
	for _, tbl := range []*frame.Table{scenarioTable(), docTable()} {
		for c := 0; c < tbl.Width(); c++ {
			s := tbl.ColumnAt(c)
			total := 0
			for _, r := range GapRuns(s) {
				assert.GreaterOrEqual(t, r.Length, 1)
				total += r.Length
			}
			assert.Equal(t, Restrict(s).CountMissing(), total, "column %s", s.Name)
		}
	}
}

func TestMissingPercentage(t *testing.T) {
	pct := MissingPercentage(scenarioTable())

	a, _ := pct.Get("a")
	b, _ := pct.Get("b")
	assert.InDelta(t, 20.0, a, 1e-9)
	assert.InDelta(t, 100.0/7, b, 1e-9)
	assert.Equal(t, "pcn", pct.Name)
}

func TestMissingPercentage_AllMissingIsNaN(t *testing.T) {
	tbl := frame.MustNew(testIndex(3), []string{"dead", "live"}, [][]float64{{nan, nan, nan}, {1, 2, 3}})
	pct := MissingPercentage(tbl)

	dead, _ := pct.Get("dead")
	live, _ := pct.Get("live")
	assert.True(t, math.IsNaN(dead))
	assert.Equal(t, 0.0, live)
}

func TestMissingPercentage_Bounds(t *testing.T) {
	pct := MissingPercentage(docTable())
	for i, v := range pct.Values {
		assert.GreaterOrEqual(t, v, 0.0, pct.Labels[i])
		assert.LessOrEqual(t, v, 100.0, pct.Labels[i])
	}
}

func TestMissingByWindow(t *testing.T) {
	out, err := MissingByWindow(scenarioTable(), 3)
	require.NoError(t, err)

	// a: span 0-9, gaps at 4 and 8; first full window ends on row 2
	assertOnly(t, column(t, out, "a"), map[int]float64{
		2: 0, 3: 0, 4: 1, 5: 1, 6: 1, 7: 0, 8: 1, 9: 1,
	})
	// b: span 3-9, gap at 5; first full window ends on row 5
	assertOnly(t, column(t, out, "b"), map[int]float64{
		5: 1, 6: 1, 7: 1, 8: 0, 9: 0,
	})
}

func TestMissingByWindow_MasksAfterSpanEnd(t *testing.T) {
	x := []float64{1, 2, 3, nan, nan}
	tbl := frame.MustNew(testIndex(5), []string{"x"}, [][]float64{x})

	out, err := MissingByWindow(tbl, 2)
	require.NoError(t, err)
	assertOnly(t, column(t, out, "x"), map[int]float64{1: 0, 2: 0})
}

func TestMissingByWindow_WindowLongerThanSpan(t *testing.T) {
	out, err := MissingByWindow(scenarioTable(), 8)
	require.NoError(t, err)

	assertOnly(t, column(t, out, "b"), map[int]float64{})
	assertOnly(t, column(t, out, "a"), map[int]float64{7: 1, 8: 2, 9: 2})
}

func TestMissingByWindow_InvalidWindow(t *testing.T) {
	_, err := MissingByWindow(scenarioTable(), 0)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestValidMask_MatchesZeroCounts(t *testing.T) {
	tbl := docTable()
	for _, w := range []int{1, 2, 3, 5} {
		counts, err := MissingByWindow(tbl, w)
		require.NoError(t, err)
		mask, err := ValidMask(tbl, w)
		require.NoError(t, err)

		for c := 0; c < tbl.Width(); c++ {
			for r := 0; r < tbl.Len(); r++ {
				assert.Equal(t, counts.At(r, c) == 0, mask.At(r, c), "w=%d r=%d c=%d", w, r, c)
			}
		}
	}
}

func TestValidityPercentage(t *testing.T) {
	pct, err := ValidityPercentage(scenarioTable(), 3)
	require.NoError(t, err)

	a, _ := pct.Get("a")
	b, _ := pct.Get("b")
	assert.InDelta(t, 300.0/8, a, 1e-9)
	assert.InDelta(t, 40.0, b, 1e-9)
}

func TestValidityPercentage_NoEvaluableWindowIsNaN(t *testing.T) {
	pct, err := ValidityPercentage(scenarioTable(), 8)
	require.NoError(t, err)

	b, _ := pct.Get("b")
	assert.True(t, math.IsNaN(b))
}

func TestValidityPercentage_FullyObserved(t *testing.T) {
	tbl := frame.MustNew(testIndex(6), []string{"x"}, [][]float64{{nan, 1, 2, 3, 4, nan}})
	for w := 1; w <= 4; w++ {
		pct, err := ValidityPercentage(tbl, w)
		require.NoError(t, err)
		assert.Equal(t, 100.0, pct.Values[0], "w=%d", w)
	}
	assert.Equal(t, 0.0, MissingPercentage(tbl).Values[0])
}

func TestParseOutputMode(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputMode
		wantErr bool
	}{
		{"", ModeMask, false},
		{"mask", ModeMask, false},
		{"percentage", ModePercentage, false},
		{"PC", ModePercentage, false},
		{"ratio", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputMode(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidWindows(t *testing.T) {
	tbl := scenarioTable()

	v, err := ValidWindows(tbl, 3, ModeMask)
	require.NoError(t, err)
	require.NotNil(t, v.Mask)
	assert.Nil(t, v.Percentage)

	v, err = ValidWindows(tbl, 3, ModePercentage)
	require.NoError(t, err)
	require.NotNil(t, v.Percentage)
	assert.Nil(t, v.Mask)

	_, err = ValidWindows(tbl, 3, OutputMode("bogus"))
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = ValidWindows(tbl, 3, OutputMode(""))
	assert.True(t, errors.Is(err, ErrInvalidArgument), "unresolved empty mode")

	mode, err := ParseOutputMode("")
	require.NoError(t, err)
	v, err = ValidWindows(tbl, 3, mode)
	require.NoError(t, err)
	assert.NotNil(t, v.Mask)

	_, err = ValidWindows(tbl, -1, ModeMask)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestRepeats(t *testing.T) {
	x := []float64{1, 1, 2, nan, nan, 2, 2}
	y := []float64{5, 6, 6, 6, nan, 7, 8}
	tbl := frame.MustNew(testIndex(7), []string{"x", "y"}, [][]float64{x, y})

	mask := Repeats(tbl)
	xs, _ := mask.Column("x")
	ys, _ := mask.Column("y")

	assert.Equal(t, []bool{false, true, false, false, false, false, true}, xs)
	assert.Equal(t, []bool{false, false, true, true, false, false, false}, ys)

	// the report counts exactly the flagged rows
	report, err := Analyze(context.Background(), tbl, Options{Window: 2})
	require.NoError(t, err)
	for _, name := range []string{"x", "y"} {
		flags, _ := mask.Column(name)
		want := 0
		for _, f := range flags {
			if f {
				want++
			}
		}
		col, ok := report.Column(name)
		require.True(t, ok)
		assert.Equal(t, want, col.Repeats, "column %s", name)
	}
}

func TestCoreFunctionsAreIdempotent(t *testing.T) {
	tbl := docTable()
	before := frame.MustNew(tbl.Index(), tbl.Columns(), [][]float64{
		tbl.ColumnAt(0).Values, tbl.ColumnAt(1).Values,
	})

	assert.True(t, ContiguousGaps(tbl).Equal(ContiguousGaps(tbl)))

	w1, _ := MissingByWindow(tbl, 3)
	w2, _ := MissingByWindow(tbl, 3)
	assert.True(t, w1.Equal(w2))

	p1 := MissingPercentage(tbl)
	p2 := MissingPercentage(tbl)
	assert.Equal(t, p1.Values, p2.Values)

	assert.True(t, tbl.Equal(before), "input table was modified")
}

func TestAnalyze(t *testing.T) {
	rep, err := Analyze(context.Background(), scenarioTable(), Options{Window: 3, Workers: 2})
	require.NoError(t, err)
	require.Len(t, rep.Columns, 2)
	assert.Equal(t, 10, rep.Rows)
	assert.Equal(t, 3, rep.Window)

	a, ok := rep.Column("a")
	require.True(t, ok)
	assert.Equal(t, "a", rep.Columns[0].Column, "column order")
	assert.Equal(t, 10, a.SpanLength)
	assert.Equal(t, 2, a.MissingCount)
	require.NotNil(t, a.MissingPercentage)
	assert.InDelta(t, 20.0, *a.MissingPercentage, 1e-9)
	assert.Len(t, a.Runs, 2)
	assert.Equal(t, RunStats{Count: 2, Longest: 1, Mean: 1, Median: 1, P95: 1}, a.RunStats)
	assert.Equal(t, 8, a.EvaluableWindows)
	assert.Equal(t, 3, a.ValidWindows)

	b, _ := rep.Column("b")
	require.NotNil(t, b.SpanStart)
	assert.True(t, b.SpanStart.Equal(testIndex(10)[3]))
	assert.Equal(t, 7, b.SpanLength)
}

func TestAnalyze_UndefinedColumnDoesNotAbort(t *testing.T) {
	tbl := frame.MustNew(testIndex(4), []string{"dead", "live"}, [][]float64{
		{nan, nan, nan, nan},
		{1, 1, nan, 2},
	})

	rep, err := Analyze(context.Background(), tbl, Options{Window: 2})
	require.NoError(t, err)

	dead, _ := rep.Column("dead")
	assert.Nil(t, dead.SpanStart)
	assert.Nil(t, dead.MissingPercentage)
	assert.Nil(t, dead.ValidWindowPercentage)
	assert.Empty(t, dead.Runs)

	live, _ := rep.Column("live")
	assert.Equal(t, 1, live.Repeats)
	require.NotNil(t, live.ValidWindowPercentage)
	assert.InDelta(t, 100.0/3, *live.ValidWindowPercentage, 1e-9)
}

func TestAnalyze_Errors(t *testing.T) {
	_, err := Analyze(context.Background(), scenarioTable(), Options{Window: 0})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Analyze(ctx, scenarioTable(), Options{Window: 2})
	assert.ErrorIs(t, err, context.Canceled)
}
