package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.SearchCoordinator = (*LoggingSearchCoordinator)(nil)

// LoggingSearchCoordinator wraps a SearchCoordinator with Info-level logging.
type LoggingSearchCoordinator struct {
	next   docfetchd.SearchCoordinator
	logger *slog.Logger
}

// NewLoggingSearchCoordinator creates a new LoggingSearchCoordinator.
func NewLoggingSearchCoordinator(next docfetchd.SearchCoordinator, logger *slog.Logger) *LoggingSearchCoordinator {
	return &LoggingSearchCoordinator{next: next, logger: logger}
}

// Search delegates to the wrapped coordinator and logs the operation.
func (c *LoggingSearchCoordinator) Search(ctx context.Context, req docfetchd.SearchRequest) (results []docfetchd.SearchResult, err error) {
	defer func(begin time.Time) {
		c.logger.Info("search",
			"job_id", req.JobID,
			"selector", req.Selector,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Search(ctx, req)
}
