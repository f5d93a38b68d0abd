package search_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docfetchd/docfetchd"
	"github.com/docfetchd/docfetchd/extract"
	"github.com/docfetchd/docfetchd/jsonlindex"
	"github.com/docfetchd/docfetchd/scan"
	"github.com/docfetchd/docfetchd/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedJob(t *testing.T, root, jobID string, records []*docfetchd.IndexRecord) {
	t.Helper()
	store := jsonlindex.NewStore(root)
	w, err := store.Writer(context.Background(), jobID)
	require.NoError(t, err)
	for _, rec := range records {
		require.NoError(t, w.Append(context.Background(), rec))
	}
	require.NoError(t, w.Close())
}

func writeContent(t *testing.T, root, name, body string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCoordinator_ScanThenExtract(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	match := writeContent(t, root, "match.html", `<html><body><h1>Getting Started</h1><p>install the cli here</p></body></html>`)
	skip := writeContent(t, root, "skip.html", `<html><body><h1>Unrelated</h1></body></html>`)

	seedJob(t, root, "job1", []*docfetchd.IndexRecord{
		{OriginalURL: "http://example.test/a", CanonicalURL: "http://example.test/a", LocalPath: match, FetchStatus: docfetchd.FetchSuccess},
		{OriginalURL: "http://example.test/b", CanonicalURL: "http://example.test/b", LocalPath: skip, FetchStatus: docfetchd.FetchSuccess},
		{OriginalURL: "http://example.test/c", CanonicalURL: "http://example.test/c", FetchStatus: docfetchd.FetchFailedRequest},
	})

	coord := search.New(jsonlindex.NewStore(root), scan.New(), extract.New())

	results, err := coord.Search(context.Background(), docfetchd.SearchRequest{
		JobID:        "job1",
		ScanKeywords: []string{"install"},
		Selector:     "h1",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "http://example.test/a", results[0].OriginalURL)
	assert.Equal(t, "Getting Started", results[0].ExtractedText)
	assert.Equal(t, "h1", results[0].SelectorMatched)
}

// P6: an empty scan keyword list is a no-op scan phase, not a client
// error, and yields text from every successfully fetched file.
func TestCoordinator_EmptyScanKeywordsSkipsScanPhase(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a := writeContent(t, root, "a.html", `<html><body><h1>Alpha</h1></body></html>`)
	b := writeContent(t, root, "b.html", `<html><body><h1>Beta</h1></body></html>`)

	seedJob(t, root, "job1", []*docfetchd.IndexRecord{
		{OriginalURL: "http://example.test/a", CanonicalURL: "http://example.test/a", LocalPath: a, FetchStatus: docfetchd.FetchSuccess},
		{OriginalURL: "http://example.test/b", CanonicalURL: "http://example.test/b", LocalPath: b, FetchStatus: docfetchd.FetchSuccess},
		{OriginalURL: "http://example.test/c", CanonicalURL: "http://example.test/c", FetchStatus: docfetchd.FetchFailedRequest},
	})

	coord := search.New(jsonlindex.NewStore(root), scan.New(), extract.New())

	results, err := coord.Search(context.Background(), docfetchd.SearchRequest{
		JobID:    "job1",
		Selector: "h1",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	var texts []string
	for _, r := range results {
		texts = append(texts, r.ExtractedText)
	}
	assert.Contains(t, texts, "Alpha")
	assert.Contains(t, texts, "Beta")
}

func TestCoordinator_UnknownJobIsNotFound(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	coord := search.New(jsonlindex.NewStore(root), scan.New(), extract.New())

	_, err := coord.Search(context.Background(), docfetchd.SearchRequest{JobID: "missing", Selector: "h1", ScanKeywords: []string{"x"}})
	require.Error(t, err)
	assert.Equal(t, docfetchd.ENOTFOUND, docfetchd.ErrorCode(err))
}

func TestCoordinator_MalformedSelectorIsClientError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	match := writeContent(t, root, "match.html", `<html><body><p>findme</p></body></html>`)
	seedJob(t, root, "job1", []*docfetchd.IndexRecord{
		{OriginalURL: "http://example.test/a", CanonicalURL: "http://example.test/a", LocalPath: match, FetchStatus: docfetchd.FetchSuccess},
	})

	coord := search.New(jsonlindex.NewStore(root), scan.New(), extract.New())

	_, err := coord.Search(context.Background(), docfetchd.SearchRequest{
		JobID:        "job1",
		ScanKeywords: []string{"findme"},
		Selector:     "###bad",
	})
	require.Error(t, err)
	assert.Equal(t, docfetchd.EINVALID, docfetchd.ErrorCode(err))
}
