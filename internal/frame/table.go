// Package frame provides the time-indexed table used by the gap analytics.
//
// A Table is an ordered time index plus a fixed ordered set of named float64
// columns. Missing cells hold NaN. Tables are immutable once built: every
// operation returns a new value and never writes into its receiver.
package frame

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Missing returns the missing-value marker.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Table is a column-major time-indexed numeric table.
type Table struct {
	index   []time.Time
	columns []string
	data    [][]float64 // data[col][row]
	pos     map[string]int
}

// New builds a table. data is column-major and must hold one slice of
// len(index) values per column. The index must be strictly increasing,
// column names unique and every cell finite or missing. Input slices are
// copied.
func New(index []time.Time, columns []string, data [][]float64) (*Table, error) {
	if len(columns) != len(data) {
		return nil, fmt.Errorf("column count mismatch: %d names, %d columns of data", len(columns), len(data))
	}
	for i := 1; i < len(index); i++ {
		if !index[i].After(index[i-1]) {
			return nil, fmt.Errorf("index not strictly increasing at row %d (%s after %s)",
				i, index[i].Format(time.RFC3339), index[i-1].Format(time.RFC3339))
		}
	}

	pos := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := pos[name]; dup {
			return nil, fmt.Errorf("duplicate column: %q", name)
		}
		pos[name] = i
		if len(data[i]) != len(index) {
			return nil, fmt.Errorf("column %q has %d values, index has %d", name, len(data[i]), len(index))
		}
		for r, v := range data[i] {
			if math.IsInf(v, 0) {
				return nil, fmt.Errorf("column %q row %d: non-finite value %v", name, r, v)
			}
		}
	}

	t := &Table{
		index:   append([]time.Time(nil), index...),
		columns: append([]string(nil), columns...),
		data:    make([][]float64, len(data)),
		pos:     pos,
	}
	for i, col := range data {
		t.data[i] = append([]float64(nil), col...)
	}
	return t, nil
}

// MustNew is New that panics on error. Intended for tests and literals.
func MustNew(index []time.Time, columns []string, data [][]float64) *Table {
	t, err := New(index, columns, data)
	if err != nil {
		panic(err)
	}
	return t
}

// Full returns a table with the given index and columns where every cell is v.
func Full(index []time.Time, columns []string, v float64) *Table {
	data := make([][]float64, len(columns))
	for c := range data {
		col := make([]float64, len(index))
		for r := range col {
			col[r] = v
		}
		data[c] = col
	}
	return fromOwned(index, columns, data)
}

// fromOwned wraps slices without copying or validating. Callers must pass
// an index and columns taken from an existing table.
func fromOwned(index []time.Time, columns []string, data [][]float64) *Table {
	pos := make(map[string]int, len(columns))
	for i, name := range columns {
		pos[name] = i
	}
	return &Table{index: index, columns: columns, data: data, pos: pos}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.index)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.columns)
}

// Index returns a copy of the time index.
func (t *Table) Index() []time.Time {
	return append([]time.Time(nil), t.index...)
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// At returns the cell at the given row and column positions.
func (t *Table) At(row, col int) float64 {
	return t.data[col][row]
}

// Value returns the cell at the given time label and column name.
func (t *Table) Value(ts time.Time, column string) (float64, bool) {
	c, ok := t.pos[column]
	if !ok {
		return 0, false
	}
	r, ok := t.Row(ts)
	if !ok {
		return 0, false
	}
	return t.data[c][r], true
}

// Row returns the row position of a time label.
func (t *Table) Row(ts time.Time) (int, bool) {
	i := sort.Search(len(t.index), func(i int) bool { return !t.index[i].Before(ts) })
	if i < len(t.index) && t.index[i].Equal(ts) {
		return i, true
	}
	return -1, false
}

// Column returns a view of the named column.
func (t *Table) Column(name string) (Series, bool) {
	c, ok := t.pos[name]
	if !ok {
		return Series{}, false
	}
	return t.ColumnAt(c), true
}

// ColumnAt returns a view of the column at position c.
func (t *Table) ColumnAt(c int) Series {
	return Series{Name: t.columns[c], Index: t.index, Values: t.data[c]}
}

// Slice returns the rows whose time label lies in [from, to], inclusive on
// both ends like a label-based slice. An empty range yields an empty table.
func (t *Table) Slice(from, to time.Time) *Table {
	lo := sort.Search(len(t.index), func(i int) bool { return !t.index[i].Before(from) })
	hi := sort.Search(len(t.index), func(i int) bool { return t.index[i].After(to) })
	if hi < lo {
		hi = lo
	}
	return t.Rows(lo, hi)
}

// Rows returns rows [lo, hi) by position.
func (t *Table) Rows(lo, hi int) *Table {
	data := make([][]float64, len(t.data))
	for c, col := range t.data {
		data[c] = append([]float64(nil), col[lo:hi]...)
	}
	return fromOwned(append([]time.Time(nil), t.index[lo:hi]...), t.Columns(), data)
}

// Select returns a table restricted to the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	data := make([][]float64, len(names))
	for i, name := range names {
		c, ok := t.pos[name]
		if !ok {
			return nil, fmt.Errorf("unknown column: %q", name)
		}
		data[i] = t.data[c]
	}
	return New(t.index, names, data)
}

// IsNA returns a boolean table that is true where the cell is missing.
func (t *Table) IsNA() *BoolTable {
	return t.Mask(IsMissing)
}

// Mask applies pred to every cell.
func (t *Table) Mask(pred func(float64) bool) *BoolTable {
	data := make([][]bool, len(t.data))
	for c, col := range t.data {
		out := make([]bool, len(col))
		for r, v := range col {
			out[r] = pred(v)
		}
		data[c] = out
	}
	return &BoolTable{index: t.index, columns: t.columns, data: data}
}

// MapColumns builds a same-shaped table by applying fn to every column.
// fn must return exactly Len() values; it must not retain or modify the
// series it receives.
func (t *Table) MapColumns(fn func(s Series) []float64) *Table {
	data := make([][]float64, len(t.data))
	for c := range t.data {
		out := fn(t.ColumnAt(c))
		if len(out) != len(t.index) {
			panic(fmt.Sprintf("frame: MapColumns produced %d values for %d rows", len(out), len(t.index)))
		}
		data[c] = out
	}
	return fromOwned(t.index, t.columns, data)
}

// Equal reports whether two tables have the same shape, labels and cells.
// Missing cells compare equal to each other.
func (t *Table) Equal(o *Table) bool {
	if t.Len() != o.Len() || t.Width() != o.Width() {
		return false
	}
	for i := range t.index {
		if !t.index[i].Equal(o.index[i]) {
			return false
		}
	}
	for c := range t.columns {
		if t.columns[c] != o.columns[c] {
			return false
		}
		for r, v := range t.data[c] {
			w := o.data[c][r]
			if v != w && !(IsMissing(v) && IsMissing(w)) {
				return false
			}
		}
	}
	return true
}
