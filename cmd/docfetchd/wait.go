package main

import (
	"time"

	"github.com/docfetchd/docfetchd"
)

// pollInterval is how often waitForJob checks a running job's status.
// Jobs run on a background goroutine inside the manager, so there is no
// blocking Submit call to wait on directly.
const pollInterval = 500 * time.Millisecond

// waitForJob polls until id reaches a terminal status, then prints it
// and returns an error if the job failed.
func waitForJob(deps *Dependencies, id string) error {
	interval := deps.PollInterval
	if interval <= 0 {
		interval = pollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := deps.Jobs.Status(deps.Ctx, id)
		if err != nil {
			return err
		}
		if job.Status == docfetchd.JobCompleted || job.Status == docfetchd.JobFailed {
			printJobStatus(deps, job)
			if job.Status == docfetchd.JobFailed {
				return docfetchd.Errorf(docfetchd.EINTERNAL, "job %s failed: %s", id, job.ErrorDetail)
			}
			return nil
		}

		select {
		case <-deps.Ctx.Done():
			return deps.Ctx.Err()
		case <-ticker.C:
		}
	}
}
