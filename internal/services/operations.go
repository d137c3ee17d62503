package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/soltixdb/gapscan/internal/analytics/gaps"
	"github.com/soltixdb/gapscan/internal/analytics/rolling"
	"github.com/soltixdb/gapscan/internal/frame"
)

// Params carries the resolved window, output mode and worker bound of a
// request
type Params struct {
	Window  int
	Mode    gaps.OutputMode
	Workers int
}

// Operation computes one gap statistic over a table
type Operation func(ctx context.Context, t *frame.Table, p Params) (interface{}, error)

// operationRegistry holds the operations exposed by Compute
var operationRegistry = map[string]Operation{
	"runs": func(_ context.Context, t *frame.Table, _ Params) (interface{}, error) {
		return gaps.ContiguousGaps(t), nil
	},
	"missing": func(_ context.Context, t *frame.Table, _ Params) (interface{}, error) {
		return gaps.MissingPercentage(t), nil
	},
	"windows": func(_ context.Context, t *frame.Table, p Params) (interface{}, error) {
		return gaps.MissingByWindow(t, p.Window)
	},
	"validity": func(_ context.Context, t *frame.Table, p Params) (interface{}, error) {
		return gaps.ValidWindows(t, p.Window, p.Mode)
	},
	"repeats": func(_ context.Context, t *frame.Table, _ Params) (interface{}, error) {
		return gaps.Repeats(t), nil
	},
	"rolling": func(_ context.Context, t *frame.Table, p Params) (interface{}, error) {
		return rolling.MeanTable(t, p.Window)
	},
	"report": func(ctx context.Context, t *frame.Table, p Params) (interface{}, error) {
		return gaps.Analyze(ctx, t, gaps.Options{Window: p.Window, Workers: p.Workers})
	},
}

// RegisterOperation adds an operation to the registry
func RegisterOperation(name string, op Operation) {
	operationRegistry[name] = op
}

// GetOperation returns an operation by name
func GetOperation(name string) (Operation, error) {
	if op, ok := operationRegistry[name]; ok {
		return op, nil
	}
	return nil, fmt.Errorf("unknown operation: %s", name)
}

// ListOperations returns the sorted operation names
func ListOperations() []string {
	names := make([]string, 0, len(operationRegistry))
	for name := range operationRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
