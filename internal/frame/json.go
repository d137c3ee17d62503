package frame

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/soltixdb/gapscan/internal/utils"
)

// timeLayouts are the accepted index label formats, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime parses an index label. Labels without a zone are read in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time label: %q", s)
}

// tableJSON is the wire form of a Table: column-major data with null for
// missing cells.
type tableJSON struct {
	Index   []string     `json:"index"`
	Columns []string     `json:"columns"`
	Data    [][]*float64 `json:"data"`
}

// MarshalJSON encodes the table with null for missing cells.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{
		Index:   formatIndex(t.index),
		Columns: t.columns,
		Data:    make([][]*float64, len(t.data)),
	}
	for c, col := range t.data {
		cells := make([]*float64, len(col))
		for r, v := range col {
			if !IsMissing(v) {
				v := v
				cells[r] = &v
			}
		}
		out.Data[c] = cells
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates a table. Rows are expected in
// increasing time order.
func (t *Table) UnmarshalJSON(b []byte) error {
	var in tableJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	index := make([]time.Time, len(in.Index))
	for i, s := range in.Index {
		ts, err := ParseTime(s, time.UTC)
		if err != nil {
			return fmt.Errorf("index[%d]: %w", i, err)
		}
		index[i] = ts
	}

	data := make([][]float64, len(in.Data))
	for c, cells := range in.Data {
		col := make([]float64, len(cells))
		for r, p := range cells {
			if p == nil {
				col[r] = Missing()
			} else {
				col[r] = *p
			}
		}
		data[c] = col
	}

	parsed, err := New(index, in.Columns, data)
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}

type boolTableJSON struct {
	Index   []string `json:"index"`
	Columns []string `json:"columns"`
	Data    [][]bool `json:"data"`
}

// MarshalJSON encodes the boolean table column-major.
func (b *BoolTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(boolTableJSON{
		Index:   formatIndex(b.index),
		Columns: b.columns,
		Data:    b.data,
	})
}

type vectorJSON struct {
	Name   string     `json:"name,omitempty"`
	Labels []string   `json:"labels"`
	Values []*float64 `json:"values"`
}

// MarshalJSON encodes the vector with null for undefined entries.
func (v Vector) MarshalJSON() ([]byte, error) {
	out := vectorJSON{Name: v.Name, Labels: v.Labels, Values: make([]*float64, len(v.Values))}
	for i, x := range v.Values {
		if !IsMissing(x) {
			x := x
			out.Values[i] = &x
		}
	}
	return json.Marshal(out)
}

func formatIndex(index []time.Time) []string {
	out := make([]string, len(index))
	for i, ts := range index {
		out[i] = ts.Format(time.RFC3339Nano)
	}
	return out
}

// FromRecords builds a table from query-style results: parallel time labels
// and per-field value slices where nil (or a non-numeric value) is missing.
// Rows are sorted by time; fields are ordered by name.
func FromRecords(times []string, fields map[string][]interface{}) (*Table, error) {
	type row struct {
		ts  time.Time
		pos int
	}
	rows := make([]row, len(times))
	for i, s := range times {
		ts, err := ParseTime(s, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("times[%d]: %w", i, err)
		}
		rows[i] = row{ts: ts, pos: i}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ts.Before(rows[j].ts) })

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	index := make([]time.Time, len(rows))
	for i, r := range rows {
		index[i] = r.ts
	}

	data := make([][]float64, len(names))
	for c, name := range names {
		values := fields[name]
		col := make([]float64, len(rows))
		for i, r := range rows {
			col[i] = Missing()
			if r.pos >= len(values) {
				continue
			}
			if f, ok := utils.ToFloat64(values[r.pos]); ok {
				col[i] = f
			}
		}
		data[c] = col
	}

	return New(index, names, data)
}
