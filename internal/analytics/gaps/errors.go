package gaps

import "errors"

// ErrInvalidArgument is returned when a caller passes a window length below
// 1 or an unknown output mode. Per-column conditions such as an empty span
// are never errors; they surface as missing values in the output.
var ErrInvalidArgument = errors.New("invalid argument")
