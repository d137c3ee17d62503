package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/soltixdb/gapscan/internal/analytics/gaps"
	"github.com/soltixdb/gapscan/internal/cache"
	"github.com/soltixdb/gapscan/internal/config"
	"github.com/soltixdb/gapscan/internal/frame"
	"github.com/soltixdb/gapscan/internal/logging"
	"github.com/soltixdb/gapscan/internal/models"
	"github.com/soltixdb/gapscan/internal/queue"
	"github.com/soltixdb/gapscan/internal/utils"
)

// GapService runs gap analyses with caching and report publishing
type GapService struct {
	logger        *logging.Logger
	cfg           config.AnalysisConfig
	cache         cache.ReportCache
	caching       bool
	publisher     queue.Publisher
	reportSubject string
}

// NewGapService creates a new GapService. reportCache and publisher may be
// nil; reports are then neither cached nor published.
func NewGapService(
	logger *logging.Logger,
	cfg config.AnalysisConfig,
	reportCache cache.ReportCache,
	publisher queue.Publisher,
	reportSubject string,
) *GapService {
	if reportCache == nil {
		reportCache = cache.Nop{}
	}
	_, nop := reportCache.(cache.Nop)
	return &GapService{
		logger:        logger,
		cfg:           cfg,
		cache:         reportCache,
		caching:       !nop,
		publisher:     publisher,
		reportSubject: reportSubject,
	}
}

// AnalysisRequest represents one analysis. Zero Window and empty Mode fall
// back to the configured defaults.
type AnalysisRequest struct {
	JobID  string
	Table  *frame.Table
	Window int
	Mode   string
}

// AnalysisResult is the outcome of Execute
type AnalysisResult struct {
	JobID  string          `json:"job_id,omitempty"`
	Mode   gaps.OutputMode `json:"mode"`
	Cached bool            `json:"cached"`
	Report *gaps.Report    `json:"report"`
}

// Config returns the analysis defaults the service applies
func (s *GapService) Config() config.AnalysisConfig {
	return s.cfg
}

// Resolve validates req and applies defaults
func (s *GapService) Resolve(req *AnalysisRequest) (Params, error) {
	if req.Table == nil {
		return Params{}, NewServiceError(CodeInvalidTable, "table is required")
	}
	if s.cfg.MaxRows > 0 && req.Table.Len() > s.cfg.MaxRows {
		return Params{}, NewServiceErrorWithDetails(CodeInvalidTable,
			fmt.Sprintf("table has %d rows, limit is %d", req.Table.Len(), s.cfg.MaxRows),
			map[string]interface{}{"max_rows": s.cfg.MaxRows})
	}

	window := req.Window
	if window == 0 {
		window = s.cfg.WindowLength
	}
	if window < 1 {
		return Params{}, NewServiceError(CodeInvalidArgument, fmt.Sprintf("window must be at least 1, got %d", window))
	}

	modeName := req.Mode
	if modeName == "" {
		modeName = s.cfg.OutputMode
	}
	mode, err := gaps.ParseOutputMode(modeName)
	if err != nil {
		return Params{}, NewServiceError(CodeInvalidArgument, err.Error())
	}

	return Params{Window: window, Mode: mode, Workers: s.cfg.Workers}, nil
}

// Execute builds the full gap report for req. Reports are served from the
// cache when possible; fresh reports are cached and published.
func (s *GapService) Execute(ctx context.Context, req *AnalysisRequest) (*AnalysisResult, error) {
	startExec := time.Now()
	log := logging.Ctx(ctx)

	p, err := s.Resolve(req)
	if err != nil {
		return nil, err
	}

	var key string
	if s.caching {
		if key, err = cache.Key(req.Table, p.Window, string(p.Mode)); err != nil {
			return nil, NewServiceError(CodeInvalidTable, err.Error())
		}
		if report, ok := s.cachedReport(ctx, key); ok {
			log.Debug("Report served from cache", "job_id", req.JobID, "key", key)
			result := &AnalysisResult{JobID: req.JobID, Mode: p.Mode, Cached: true, Report: report}
			s.publish(ctx, result)
			return result, nil
		}
	}

	report, err := gaps.Analyze(ctx, req.Table, gaps.Options{Window: p.Window, Workers: p.Workers})
	if err != nil {
		return nil, classify(err)
	}

	if s.caching {
		s.storeReport(ctx, key, report)
	}

	result := &AnalysisResult{JobID: req.JobID, Mode: p.Mode, Report: report}
	s.publish(ctx, result)

	log.Info("Analysis completed",
		"job_id", req.JobID,
		"rows", req.Table.Len(),
		"columns", req.Table.Width(),
		"window", p.Window,
		"latency_ms", time.Since(startExec).Milliseconds())

	return result, nil
}

// Compute runs a single registered operation over req's table
func (s *GapService) Compute(ctx context.Context, op string, req *AnalysisRequest) (*models.OperationResponse, error) {
	fn, err := GetOperation(op)
	if err != nil {
		return nil, NewServiceErrorWithDetails(CodeUnknownOp, err.Error(),
			map[string]interface{}{"available_operations": ListOperations()})
	}

	p, err := s.Resolve(req)
	if err != nil {
		return nil, err
	}

	out, err := fn(ctx, req.Table, p)
	if err != nil {
		return nil, classify(err)
	}

	return &models.OperationResponse{
		Operation: op,
		Window:    p.Window,
		Mode:      string(p.Mode),
		Result:    out,
	}, nil
}

// PublishFailure reports a job that could not be analyzed
func (s *GapService) PublishFailure(ctx context.Context, jobID string, err error) {
	if s.publisher == nil || s.reportSubject == "" {
		return
	}
	svcErr := classify(err)
	s.send(ctx, models.ReportMessage{
		JobID: jobID,
		Error: &models.ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Details: svcErr.Details,
		},
		FinishedAt: time.Now().UTC(),
	})
}

func (s *GapService) cachedReport(ctx context.Context, key string) (*gaps.Report, bool) {
	ctx, cancel := context.WithTimeout(ctx, utils.CacheOperationTimeout)
	defer cancel()

	report, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Report cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	return report, ok
}

func (s *GapService) storeReport(ctx context.Context, key string, report *gaps.Report) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), utils.CacheOperationTimeout)
	defer cancel()

	if err := s.cache.Set(ctx, key, report); err != nil {
		s.logger.Warn("Report cache store failed", "key", key, "error", err)
	}
}

func (s *GapService) publish(ctx context.Context, result *AnalysisResult) {
	if s.publisher == nil || s.reportSubject == "" {
		return
	}
	s.send(ctx, models.ReportMessage{
		JobID:      result.JobID,
		Mode:       string(result.Mode),
		Cached:     result.Cached,
		Report:     result.Report,
		FinishedAt: time.Now().UTC(),
	})
}

func (s *GapService) send(ctx context.Context, msg models.ReportMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Failed to encode report message", "job_id", msg.JobID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), utils.PublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, s.reportSubject, data); err != nil {
		s.logger.Warn("Failed to publish report", "job_id", msg.JobID, "subject", s.reportSubject, "error", err)
	}
}
