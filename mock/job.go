package mock

import (
	"context"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.JobManager = (*JobManager)(nil)

// JobManager is a mock implementation of docfetchd.JobManager.
type JobManager struct {
	SubmitFn func(ctx context.Context, req docfetchd.JobRequest) (*docfetchd.Job, error)
	StatusFn func(ctx context.Context, id string) (*docfetchd.Job, error)
	CancelFn func(ctx context.Context, id string) error
}

func (m *JobManager) Submit(ctx context.Context, req docfetchd.JobRequest) (*docfetchd.Job, error) {
	return m.SubmitFn(ctx, req)
}

func (m *JobManager) Status(ctx context.Context, id string) (*docfetchd.Job, error) {
	return m.StatusFn(ctx, id)
}

func (m *JobManager) Cancel(ctx context.Context, id string) error {
	return m.CancelFn(ctx, id)
}

var _ docfetchd.Engine = (*Engine)(nil)

// Engine is a mock implementation of docfetchd.Engine.
type Engine struct {
	RunFn func(ctx context.Context, req docfetchd.CrawlRequest) error
}

func (e *Engine) Run(ctx context.Context, req docfetchd.CrawlRequest) error {
	return e.RunFn(ctx, req)
}
