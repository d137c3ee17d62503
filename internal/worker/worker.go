// Package worker consumes analysis jobs from the queue.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/soltixdb/gapscan/internal/logging"
	"github.com/soltixdb/gapscan/internal/models"
	"github.com/soltixdb/gapscan/internal/queue"
	"github.com/soltixdb/gapscan/internal/services"
)

// Stats counts handled jobs
type Stats struct {
	Completed int64 `json:"completed"`
	Rejected  int64 `json:"rejected"`
	Retried   int64 `json:"retried"`
}

// Worker runs every job received on its subject through the gap service.
// Reports and rejections are published by the service.
type Worker struct {
	logger     *logging.Logger
	subscriber queue.Subscriber
	service    *services.GapService
	subject    string

	completed atomic.Int64
	rejected  atomic.Int64
	retried   atomic.Int64
}

// New creates a worker consuming subject
func New(logger *logging.Logger, subscriber queue.Subscriber, service *services.GapService, subject string) *Worker {
	return &Worker{
		logger:     logger.Component("worker"),
		subscriber: subscriber,
		service:    service,
		subject:    subject,
	}
}

// Start subscribes to the job subject
func (w *Worker) Start() error {
	if err := w.subscriber.Subscribe(w.subject, w.Handle); err != nil {
		return fmt.Errorf("subscribe %s: %w", w.subject, err)
	}
	w.logger.Info("Worker started", "subject", w.subject)
	return nil
}

// Stop unsubscribes from the job subject
func (w *Worker) Stop() error {
	return w.subscriber.Unsubscribe(w.subject)
}

// Stats returns a snapshot of the job counters
func (w *Worker) Stats() Stats {
	return Stats{
		Completed: w.completed.Load(),
		Rejected:  w.rejected.Load(),
		Retried:   w.retried.Load(),
	}
}

// Handle processes one job message. Jobs that can never succeed are
// acknowledged after a failure report; other failures return an error so
// the queue redelivers them.
func (w *Worker) Handle(ctx context.Context, data []byte) error {
	var job models.Job
	if err := json.Unmarshal(data, &job); err != nil {
		w.rejected.Add(1)
		w.logger.Warn("Dropping undecodable job", "bytes", len(data), "error", err)
		w.service.PublishFailure(ctx, "", services.NewServiceErrorWithDetails(services.CodeInvalidTable,
			"Undecodable job", map[string]interface{}{"error": err.Error()}))
		return nil
	}

	log := w.logger.With("job_id", job.ID)
	ctx = logging.WithLogger(ctx, log)

	result, err := w.service.Execute(ctx, &services.AnalysisRequest{
		JobID:  job.ID,
		Table:  job.Table,
		Window: job.Window,
		Mode:   job.Mode,
	})
	if err != nil {
		var svcErr *services.ServiceError
		if errors.As(err, &svcErr) && permanent(svcErr.Code) {
			w.rejected.Add(1)
			log.Warn("Job rejected", "code", svcErr.Code, "error", err)
			w.service.PublishFailure(ctx, job.ID, err)
			return nil
		}
		w.retried.Add(1)
		log.Error("Job failed", "error", err)
		return err
	}

	w.completed.Add(1)
	log.Debug("Job completed", "cached", result.Cached, "columns", len(result.Report.Columns))
	return nil
}

func permanent(code string) bool {
	switch code {
	case services.CodeInvalidArgument, services.CodeInvalidTable, services.CodeUnknownOp:
		return true
	default:
		return false
	}
}
