package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/docfetchd/docfetchd"
	"github.com/docfetchd/docfetchd/mock"
	docslog "github.com/docfetchd/docfetchd/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingJobManager_Submit(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.JobManager{
		SubmitFn: func(ctx context.Context, req docfetchd.JobRequest) (*docfetchd.Job, error) {
			return &docfetchd.Job{ID: "job-1", Kind: req.Kind, Status: docfetchd.JobPending}, nil
		},
	}

	m := docslog.NewLoggingJobManager(inner, logger)
	job, err := m.Submit(context.Background(), docfetchd.JobRequest{Kind: docfetchd.JobKindWeb})

	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)
	output := buf.String()
	assert.Contains(t, output, "job submit")
	assert.Contains(t, output, "job_id=job-1")
}

func TestLoggingJobManager_Cancel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.JobManager{
		CancelFn: func(ctx context.Context, id string) error {
			return nil
		},
	}

	m := docslog.NewLoggingJobManager(inner, logger)
	err := m.Cancel(context.Background(), "job-1")

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "job cancel")
	assert.Contains(t, output, "job_id=job-1")
}
