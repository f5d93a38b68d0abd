package docfetchd

import "context"

// FetchStatus is the terminal outcome of one URL fetch attempt.
type FetchStatus string

const (
	FetchSuccess       FetchStatus = "success"
	FetchSkipped       FetchStatus = "skipped"
	FetchFailedRequest FetchStatus = "failed_request"
	FetchFailedRobots  FetchStatus = "failed_robots"
	FetchFailedPaywall FetchStatus = "failed_paywall"
	FetchFailedSSRF    FetchStatus = "failed_ssrf"
	FetchFailedTooBig  FetchStatus = "failed_toobig"
	FetchFailedOther   FetchStatus = "failed_other"
)

// IndexRecord is one line of a job's index file: the outcome of exactly
// one URL fetch attempt. Ordering within the file is the order in which
// attempts were finalised, not the order in which they were enqueued.
type IndexRecord struct {
	OriginalURL  string      `json:"original_url"`
	CanonicalURL string      `json:"canonical_url"`
	LocalPath    string      `json:"local_path,omitempty"`
	ContentHash  string      `json:"content_hash,omitempty"`
	FetchStatus  FetchStatus `json:"fetch_status"`
	HTTPStatus   *int        `json:"http_status,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

// IndexWriter appends index records for a single job. Writers within a
// process serialise concurrent Append calls for the same job behind a
// per-file mutex; Close fsyncs once rather than per record.
type IndexWriter interface {
	Append(ctx context.Context, rec *IndexRecord) error
	Close() error
}

// IndexReader streams the records of a previously written job index.
// Readers tolerate unknown keys and trailing blank lines.
type IndexReader interface {
	// Each invokes fn once per record in file order, stopping early if
	// fn returns an error.
	Each(ctx context.Context, fn func(*IndexRecord) error) error
	Close() error
}

// IndexStore opens index writers and readers scoped by job id.
type IndexStore interface {
	Writer(ctx context.Context, jobID string) (IndexWriter, error)
	Reader(ctx context.Context, jobID string) (IndexReader, error)
}
