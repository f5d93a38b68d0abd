package main

import (
	"encoding/json"
	"fmt"

	"github.com/docfetchd/docfetchd"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Search.Search(deps.Ctx, docfetchd.SearchRequest{
		JobID:           c.JobID,
		ScanKeywords:    c.ScanKeywords,
		Selector:        c.Selector,
		ExtractKeywords: c.ExtractKeywords,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docfetchd.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
