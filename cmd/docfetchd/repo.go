package main

import (
	"fmt"

	"github.com/docfetchd/docfetchd"
)

// Run executes the repo command.
func (c *RepoCmd) Run(deps *Dependencies) error {
	job, err := deps.Jobs.Submit(deps.Ctx, docfetchd.JobRequest{
		ID:         c.ID,
		Kind:       docfetchd.JobKindRepo,
		RepoURL:    c.URL,
		DocSubpath: c.DocSubpath,
		Force:      c.Force,
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
