// Package slog wraps the crawl engine, search coordinator, and job
// manager with structured logging, following the same decorator shape
// throughout so every logged operation reports its duration and error.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.Engine = (*LoggingEngine)(nil)

// LoggingEngine wraps an Engine with Info-level logging.
type LoggingEngine struct {
	next   docfetchd.Engine
	logger *slog.Logger
}

// NewLoggingEngine creates a new LoggingEngine.
func NewLoggingEngine(next docfetchd.Engine, logger *slog.Logger) *LoggingEngine {
	return &LoggingEngine{next: next, logger: logger}
}

// Run delegates to the wrapped engine and logs the outcome.
func (e *LoggingEngine) Run(ctx context.Context, req docfetchd.CrawlRequest) (err error) {
	defer func(begin time.Time) {
		e.logger.Info("crawl run",
			"job_id", req.JobID,
			"start_url", req.StartURL,
			"max_depth", req.MaxDepth,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Run(ctx, req)
}
