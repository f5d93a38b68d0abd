package main

import (
	"fmt"

	"github.com/docfetchd/docfetchd"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	kind := docfetchd.JobKindWeb
	if c.Browser {
		kind = docfetchd.JobKindBrowser
	}

	job, err := deps.Jobs.Submit(deps.Ctx, docfetchd.JobRequest{
		ID:    c.ID,
		Kind:  kind,
		URL:   c.URL,
		Depth: c.Depth,
		Force: c.Force,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docfetchd.ErrorMessage(err))
		return err
	}

	if c.Preview {
		fmt.Fprintln(deps.Stdout, job.ID)
		return nil
	}

	return waitForJob(deps, job.ID)
}
