// Package services holds the analysis workflow shared by the HTTP handlers,
// the queue worker and the CLI.
package services

import (
	"context"
	"errors"

	"github.com/soltixdb/gapscan/internal/analytics/gaps"
	"github.com/soltixdb/gapscan/internal/analytics/rolling"
)

// Error codes returned in ServiceError.Code
const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInvalidTable    = "INVALID_TABLE"
	CodeUnknownOp       = "UNKNOWN_OPERATION"
	CodeAnalysisFailed  = "ANALYSIS_FAILED"
	CodeCanceled        = "CANCELED"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// classify maps an analysis error to a ServiceError
func classify(err error) *ServiceError {
	var svcErr *ServiceError
	switch {
	case errors.As(err, &svcErr):
		return svcErr
	case errors.Is(err, gaps.ErrInvalidArgument), errors.Is(err, rolling.ErrInvalidWindow):
		return NewServiceError(CodeInvalidArgument, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NewServiceError(CodeCanceled, err.Error())
	default:
		return NewServiceErrorWithDetails(CodeAnalysisFailed, "Analysis failed",
			map[string]interface{}{"error": err.Error()})
	}
}
