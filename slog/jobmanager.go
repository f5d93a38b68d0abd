package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.JobManager = (*LoggingJobManager)(nil)

// LoggingJobManager wraps a JobManager with Info-level logging.
type LoggingJobManager struct {
	next   docfetchd.JobManager
	logger *slog.Logger
}

// NewLoggingJobManager creates a new LoggingJobManager.
func NewLoggingJobManager(next docfetchd.JobManager, logger *slog.Logger) *LoggingJobManager {
	return &LoggingJobManager{next: next, logger: logger}
}

// Submit delegates to the wrapped manager and logs the admission.
func (m *LoggingJobManager) Submit(ctx context.Context, req docfetchd.JobRequest) (job *docfetchd.Job, err error) {
	defer func(begin time.Time) {
		id := ""
		if job != nil {
			id = job.ID
		}
		m.logger.Info("job submit",
			"job_id", id,
			"kind", req.Kind,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.Submit(ctx, req)
}

// Status delegates to the wrapped manager.
func (m *LoggingJobManager) Status(ctx context.Context, id string) (*docfetchd.Job, error) {
	return m.next.Status(ctx, id)
}

// Cancel delegates to the wrapped manager and logs the cancellation.
func (m *LoggingJobManager) Cancel(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		m.logger.Info("job cancel",
			"job_id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.Cancel(ctx, id)
}
