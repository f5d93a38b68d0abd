package docfetchd

import (
	"context"
	"time"
)

// JobKind distinguishes the three acquisition strategies a job can run.
type JobKind string

const (
	JobKindWeb     JobKind = "web"
	JobKindBrowser JobKind = "browser-render"
	JobKindRepo    JobKind = "repo"
)

// JobStatus is the lifecycle state of a Job. A job is created Pending,
// moves to Running when its worker starts, and makes exactly one terminal
// transition to Completed or Failed.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job is the status record for one unit of acquisition work. It persists
// for the lifetime of the process; there is no durability requirement
// across restarts.
type Job struct {
	ID          string     `json:"id"`
	Kind        JobKind    `json:"kind"`
	Status      JobStatus  `json:"status"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Message     string     `json:"message,omitempty"`
	ErrorDetail string     `json:"error_detail,omitempty"`
}

// JobRequest describes a job to admit. Only the fields relevant to Kind
// are read by the manager; the rest are ignored.
type JobRequest struct {
	ID   string  // optional; generated if empty
	Kind JobKind

	// web / browser-render
	URL            string
	Depth          int
	Force          bool
	TimeoutHTTP    time.Duration
	TimeoutBrowser time.Duration
	MaxBodySize    int64

	// repo
	RepoURL    string
	DocSubpath string
}

// JobManager admits job descriptions, runs them asynchronously, and
// answers status queries by id. Implementations are safe for concurrent
// use by multiple callers.
type JobManager interface {
	// Submit sanitises/generates the job id, rejects duplicates, creates
	// the job record in JobPending, and launches a background worker.
	// Returns ECONFLICT if the (sanitised) id is already in use.
	Submit(ctx context.Context, req JobRequest) (*Job, error)

	// Status returns a snapshot of the job's current record.
	// Returns ENOTFOUND if no job with that id exists.
	Status(ctx context.Context, id string) (*Job, error)

	// Cancel requests cancellation of a running job. The job's terminal
	// status becomes JobFailed with ErrorDetail "cancelled".
	// Returns ENOTFOUND if no job with that id exists.
	Cancel(ctx context.Context, id string) error
}
