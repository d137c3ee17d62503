package models

import (
	"time"

	"github.com/soltixdb/gapscan/internal/analytics/gaps"
	"github.com/soltixdb/gapscan/internal/frame"
)

// Job is an analysis request travelling on the job subject
type Job struct {
	ID          string       `json:"id"`
	Table       *frame.Table `json:"table"`
	Window      int          `json:"window,omitempty"`
	Mode        string       `json:"mode,omitempty"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

// JobAccepted is returned by POST /v1/jobs
type JobAccepted struct {
	JobID   string `json:"job_id"`
	Subject string `json:"subject"`
}

// ReportMessage is published on the report subject once an analysis ends.
// Exactly one of Report and Error is set.
type ReportMessage struct {
	JobID      string       `json:"job_id,omitempty"`
	Mode       string       `json:"mode"`
	Cached     bool         `json:"cached"`
	Report     *gaps.Report `json:"report,omitempty"`
	Error      *ErrorDetail `json:"error,omitempty"`
	FinishedAt time.Time    `json:"finished_at"`
}
