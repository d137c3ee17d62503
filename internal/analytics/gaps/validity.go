package gaps

import (
	"fmt"
	"math"
	"strings"

	"github.com/soltixdb/gapscan/internal/frame"
)

// OutputMode selects how ValidWindows reports its result.
type OutputMode string

const (
	// ModeMask returns the per-window boolean table (default)
	ModeMask OutputMode = "mask"
	// ModePercentage returns the per-column percentage of valid windows
	ModePercentage OutputMode = "percentage"
)

// ParseOutputMode maps a selector to an OutputMode. The empty selector means
// ModeMask and "pc" is accepted as a short form of "percentage"; anything
// else is rejected with ErrInvalidArgument.
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeMask):
		return ModeMask, nil
	case string(ModePercentage), "pc":
		return ModePercentage, nil
	default:
		return "", fmt.Errorf("%w: unknown output mode %q (supported: mask, percentage)", ErrInvalidArgument, s)
	}
}

// Validity is the result of ValidWindows. Exactly one of Mask and
// Percentage is set, according to Mode.
type Validity struct {
	Mode       OutputMode       `json:"mode"`
	Window     int              `json:"window"`
	Mask       *frame.BoolTable `json:"mask,omitempty"`
	Percentage *frame.Vector    `json:"percentage,omitempty"`
}

// ValidWindows reports the windows of length w that contain no missing
// value, either as a mask or as a percentage per column. mode must already
// be resolved: the empty selector that ParseOutputMode maps to ModeMask is
// rejected here, so pass user input through ParseOutputMode first.
func ValidWindows(t *frame.Table, w int, mode OutputMode) (*Validity, error) {
	switch mode {
	case ModeMask:
		mask, err := ValidMask(t, w)
		if err != nil {
			return nil, err
		}
		return &Validity{Mode: mode, Window: w, Mask: mask}, nil
	case ModePercentage:
		pct, err := ValidityPercentage(t, w)
		if err != nil {
			return nil, err
		}
		return &Validity{Mode: mode, Window: w, Percentage: &pct}, nil
	default:
		return nil, fmt.Errorf("%w: unknown output mode %q", ErrInvalidArgument, mode)
	}
}

// ValidMask is true exactly where MissingByWindow is 0. Rows without a
// defined count read as false.
func ValidMask(t *frame.Table, w int) (*frame.BoolTable, error) {
	counts, err := MissingByWindow(t, w)
	if err != nil {
		return nil, err
	}
	return counts.Mask(func(v float64) bool { return v == 0 }), nil
}

// ValidityPercentage returns, per column, the percentage of windows with no
// missing value among all windows that could be evaluated. A column without
// any evaluable window yields NaN.
func ValidityPercentage(t *frame.Table, w int) (frame.Vector, error) {
	if w < 1 {
		return frame.Vector{}, fmt.Errorf("%w: window length %d", ErrInvalidArgument, w)
	}
	out := frame.Vector{Name: "valid_windows_pc", Labels: t.Columns(), Values: make([]float64, t.Width())}
	for c := range out.Values {
		out.Values[c] = validPercentage(windowCounts(t.ColumnAt(c), w))
	}
	return out, nil
}

func validPercentage(counts []float64) float64 {
	valid, defined := 0, 0
	for _, v := range counts {
		if v >= 0 {
			defined++
			if v == 0 {
				valid++
			}
		}
	}
	if defined == 0 {
		return math.NaN()
	}
	return float64(valid) / float64(defined) * 100
}
