package main

import (
	"fmt"

	"github.com/docfetchd/docfetchd"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	job, err := deps.Jobs.Status(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docfetchd.ErrorMessage(err))
		return err
	}
	printJobStatus(deps, job)
	return nil
}

func printJobStatus(deps *Dependencies, job *docfetchd.Job) {
	fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", job.ID, job.Kind, job.Status)
	if job.Message != "" {
		fmt.Fprintf(deps.Stdout, "  %s\n", job.Message)
	}
	if job.ErrorDetail != "" {
		fmt.Fprintf(deps.Stdout, "  error: %s\n", job.ErrorDetail)
	}
}
