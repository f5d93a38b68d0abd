// Package jobmanager implements the thin orchestration layer that admits
// job descriptors, runs them on a background goroutine, and answers
// status queries. It owns no acquisition logic of its own; it wires a
// request to the right Engine/acquirer and records the outcome.
package jobmanager

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/docfetchd/docfetchd"
	"github.com/google/uuid"
)

var idAlphabet = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

var _ docfetchd.JobManager = (*Manager)(nil)

// Runner executes one job to completion. Implementations are expected to
// block until the job finishes, fails, or ctx is cancelled.
type Runner interface {
	Run(ctx context.Context, req docfetchd.JobRequest) error
}

type entry struct {
	job    docfetchd.Job
	cancel context.CancelFunc
}

// Manager admits and tracks jobs in memory. It carries no durability
// across process restarts.
type Manager struct {
	mu     sync.Mutex
	jobs   map[string]*entry
	runner Runner
	logger *slog.Logger
}

// New creates a Manager that dispatches admitted jobs to runner.
func New(runner Runner) *Manager {
	return &Manager{
		jobs:   make(map[string]*entry),
		runner: runner,
		logger: slog.Default(),
	}
}

// Submit implements docfetchd.JobManager.
func (m *Manager) Submit(ctx context.Context, req docfetchd.JobRequest) (*docfetchd.Job, error) {
	id := sanitizeID(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	if _, exists := m.jobs[id]; exists {
		m.mu.Unlock()
		return nil, docfetchd.Errorf(docfetchd.ECONFLICT, "job %s already exists", id)
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	e := &entry{
		job: docfetchd.Job{
			ID:     id,
			Kind:   req.Kind,
			Status: docfetchd.JobPending,
		},
		cancel: cancel,
	}
	m.jobs[id] = e
	m.mu.Unlock()

	req.ID = id
	go m.run(jobCtx, id, req)

	snapshot := e.job
	return &snapshot, nil
}

// Status implements docfetchd.JobManager.
func (m *Manager) Status(ctx context.Context, id string) (*docfetchd.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.jobs[id]
	if !ok {
		return nil, docfetchd.Errorf(docfetchd.ENOTFOUND, "job %s not found", id)
	}
	snapshot := e.job
	return &snapshot, nil
}

// Cancel implements docfetchd.JobManager.
func (m *Manager) Cancel(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.jobs[id]
	m.mu.Unlock()
	if !ok {
		return docfetchd.Errorf(docfetchd.ENOTFOUND, "job %s not found", id)
	}
	e.cancel()
	return nil
}

func (m *Manager) run(ctx context.Context, id string, req docfetchd.JobRequest) {
	now := time.Now()
	m.transition(id, func(j *docfetchd.Job) {
		j.Status = docfetchd.JobRunning
		j.StartTime = &now
	})

	err := m.runner.Run(ctx, req)

	end := time.Now()
	m.transition(id, func(j *docfetchd.Job) {
		j.EndTime = &end
		if err == nil {
			j.Status = docfetchd.JobCompleted
			return
		}
		j.Status = docfetchd.JobFailed
		if ctx.Err() == context.Canceled {
			j.ErrorDetail = "cancelled"
			j.Message = "job cancelled"
			return
		}
		j.ErrorDetail = truncateError(err)
		j.Message = "job failed"
	})

	if err != nil {
		m.logger.Error("job failed", "job_id", id, "error", err)
	}
}

func (m *Manager) transition(id string, fn func(*docfetchd.Job)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.jobs[id]
	if !ok {
		return
	}
	fn(&e.job)
}

func sanitizeID(id string) string {
	return idAlphabet.ReplaceAllString(id, "")
}

func truncateError(err error) string {
	const max = 2000
	s := fmt.Sprintf("%v", err)
	if len(s) <= max {
		return s
	}
	return s[:max]
}
