// Package search implements the two-phase search coordinator: open a
// job's index, narrow it with the keyword scanner, then pull fragments
// out of each candidate with the structural extractor.
package search

import (
	"context"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.SearchCoordinator = (*Coordinator)(nil)

// Coordinator runs the scan-then-extract pipeline against one job's index.
type Coordinator struct {
	Index   docfetchd.IndexStore
	Scanner docfetchd.Scanner
	Extract docfetchd.Extractor
}

// New creates a Coordinator from its three collaborators.
func New(index docfetchd.IndexStore, scanner docfetchd.Scanner, extractor docfetchd.Extractor) *Coordinator {
	return &Coordinator{Index: index, Scanner: scanner, Extract: extractor}
}

type candidate struct {
	localPath   string
	originalURL string
}

// Search implements docfetchd.SearchCoordinator.
func (c *Coordinator) Search(ctx context.Context, req docfetchd.SearchRequest) ([]docfetchd.SearchResult, error) {
	reader, err := c.Index.Reader(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var candidates []candidate
	pathToURL := make(map[string]string)
	var paths []string

	err = reader.Each(ctx, func(rec *docfetchd.IndexRecord) error {
		if rec.FetchStatus != docfetchd.FetchSuccess {
			return nil
		}
		candidates = append(candidates, candidate{localPath: rec.LocalPath, originalURL: rec.OriginalURL})
		pathToURL[rec.LocalPath] = rec.OriginalURL
		paths = append(paths, rec.LocalPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// An empty keyword list means every successfully fetched file is a
	// candidate; skip the scan phase rather than asking the scanner to
	// match against nothing.
	var matchedSet map[string]struct{}
	if len(req.ScanKeywords) > 0 {
		matched, err := c.Scanner.Scan(ctx, paths, req.ScanKeywords)
		if err != nil {
			return nil, err
		}
		matchedSet = make(map[string]struct{}, len(matched))
		for _, p := range matched {
			matchedSet[p] = struct{}{}
		}
	}

	var results []docfetchd.SearchResult
	for _, cand := range candidates {
		if matchedSet != nil {
			if _, ok := matchedSet[cand.localPath]; !ok {
				continue
			}
		}
		fragments, err := c.Extract.Extract(ctx, cand.localPath, req.Selector, req.ExtractKeywords)
		if err != nil {
			return nil, err
		}
		for _, fragment := range fragments {
			results = append(results, docfetchd.SearchResult{
				OriginalURL:     cand.originalURL,
				ExtractedText:   fragment,
				SelectorMatched: req.Selector,
			})
		}
	}

	return results, nil
}
