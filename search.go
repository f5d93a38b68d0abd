package docfetchd

import "context"

// SearchRequest is the input to the search coordinator: a job to scope the
// search to, the scan-phase keyword conjunction, the extraction selector,
// and an optional extract-phase keyword conjunction.
type SearchRequest struct {
	JobID           string
	ScanKeywords    []string
	Selector        string
	ExtractKeywords []string
}

// SearchResult is one extracted fragment, joined back to the page it came
// from.
type SearchResult struct {
	OriginalURL     string `json:"original_url"`
	ExtractedText   string `json:"extracted_text"`
	SelectorMatched string `json:"selector_matched"`
}

// Scanner narrows a set of successfully fetched files to those whose
// decoded text contains every keyword in the conjunction.
type Scanner interface {
	Scan(ctx context.Context, paths []string, keywords []string) ([]string, error)
}

// Extractor parses one HTML file and returns the text of every element
// matching selector, optionally filtered by a keyword conjunction.
type Extractor interface {
	Extract(ctx context.Context, path string, selector string, keywords []string) ([]string, error)
}

// SearchCoordinator runs the two-phase search against a job's index.
type SearchCoordinator interface {
	// Search returns ENOTFOUND if job_id has no index, and EINVALID if
	// selector fails to parse. The selector is parsed only when at least
	// one candidate file reaches the extraction phase; with no candidates
	// a malformed selector yields an empty result and no error.
	Search(ctx context.Context, req SearchRequest) ([]SearchResult, error)
}
