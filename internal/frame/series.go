package frame

import (
	"math"
	"time"
)

// Series is a read-only view of one table column.
type Series struct {
	Name   string
	Index  []time.Time
	Values []float64
}

// Len returns the number of points
func (s Series) Len() int {
	return len(s.Values)
}

// Sub returns the view of positions [lo, hi).
func (s Series) Sub(lo, hi int) Series {
	return Series{Name: s.Name, Index: s.Index[lo:hi], Values: s.Values[lo:hi]}
}

// FirstValid returns the position of the first non-missing value, or -1.
func (s Series) FirstValid() int {
	for i, v := range s.Values {
		if !IsMissing(v) {
			return i
		}
	}
	return -1
}

// LastValid returns the position of the last non-missing value, or -1.
func (s Series) LastValid() int {
	for i := len(s.Values) - 1; i >= 0; i-- {
		if !IsMissing(s.Values[i]) {
			return i
		}
	}
	return -1
}

// CountMissing returns the number of missing values.
func (s Series) CountMissing() int {
	n := 0
	for _, v := range s.Values {
		if IsMissing(v) {
			n++
		}
	}
	return n
}

// Vector is one value per column, labelled by column name. NaN marks an
// undefined statistic.
type Vector struct {
	Name   string
	Labels []string
	Values []float64
}

// Get returns the value for a label.
func (v Vector) Get(label string) (float64, bool) {
	for i, l := range v.Labels {
		if l == label {
			return v.Values[i], true
		}
	}
	return math.NaN(), false
}

// Len returns the number of entries
func (v Vector) Len() int {
	return len(v.Labels)
}
