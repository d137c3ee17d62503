package models

import (
	"fmt"

	"github.com/soltixdb/gapscan/internal/frame"
)

// TableRequest is the body of every /v1/gaps endpoint and of POST /v1/jobs.
// The table is given either in column-major form (Table) or as time-ordered
// records (Times + Fields); null values are missing.
type TableRequest struct {
	Table  *frame.Table             `json:"table,omitempty"`
	Times  []string                 `json:"times,omitempty"`
	Fields map[string][]interface{} `json:"fields,omitempty"`
	Window int                      `json:"window,omitempty"` // overrides analysis.window_length
	Mode   string                   `json:"mode,omitempty"`   // mask or percentage
}

// ToTable returns the request table, building it from records if needed
func (r *TableRequest) ToTable() (*frame.Table, error) {
	switch {
	case r.Table != nil && len(r.Times) > 0:
		return nil, fmt.Errorf("table and times/fields are mutually exclusive")
	case r.Table != nil:
		return r.Table, nil
	case len(r.Times) > 0 || len(r.Fields) > 0:
		return frame.FromRecords(r.Times, r.Fields)
	default:
		return nil, fmt.Errorf("table is required")
	}
}
