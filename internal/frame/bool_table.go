package frame

import "time"

// BoolTable is a boolean table aligned to a Table's index and columns.
type BoolTable struct {
	index   []time.Time
	columns []string
	data    [][]bool // data[col][row]
}

// NewBoolTable builds a boolean table over an existing table's labels.
func NewBoolTable(like *Table, data [][]bool) *BoolTable {
	return &BoolTable{index: like.index, columns: like.columns, data: data}
}

// Len returns the number of rows.
func (b *BoolTable) Len() int {
	return len(b.index)
}

// Width returns the number of columns.
func (b *BoolTable) Width() int {
	return len(b.columns)
}

// Index returns a copy of the time index.
func (b *BoolTable) Index() []time.Time {
	return append([]time.Time(nil), b.index...)
}

// Columns returns a copy of the column names.
func (b *BoolTable) Columns() []string {
	return append([]string(nil), b.columns...)
}

// At returns the cell at row and column positions.
func (b *BoolTable) At(row, col int) bool {
	return b.data[col][row]
}

// Column returns the values of the named column.
func (b *BoolTable) Column(name string) ([]bool, bool) {
	for c, n := range b.columns {
		if n == name {
			return append([]bool(nil), b.data[c]...), true
		}
	}
	return nil, false
}

// Count returns the number of true cells per column.
func (b *BoolTable) Count() Vector {
	out := Vector{Name: "count", Labels: b.Columns(), Values: make([]float64, len(b.columns))}
	for c, col := range b.data {
		n := 0
		for _, v := range col {
			if v {
				n++
			}
		}
		out.Values[c] = float64(n)
	}
	return out
}
