// Package scan implements the keyword scanner: the fast first phase of
// search, narrowing a job's successfully fetched files to those whose
// decoded text contains every keyword in a conjunction.
package scan

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/docfetchd/docfetchd"
	"github.com/docfetchd/docfetchd/httpfetch"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultParallelism bounds how many files are read concurrently.
	DefaultParallelism = 4
	// DefaultReadCap is the maximum number of bytes read from one file.
	DefaultReadCap = 5 * 1024 * 1024
)

var _ docfetchd.Scanner = (*Scanner)(nil)

// Scanner reads candidate files under bounded parallelism and retains
// those whose decoded text contains every keyword, case-insensitively.
type Scanner struct {
	Parallelism int
	ReadCap     int64
	Logger      *slog.Logger
}

// New creates a Scanner with the default parallelism and read cap.
func New() *Scanner {
	return &Scanner{Parallelism: DefaultParallelism, ReadCap: DefaultReadCap, Logger: slog.Default()}
}

// Scan implements docfetchd.Scanner. A file that fails to read or decode
// is skipped rather than failing the whole request.
func (s *Scanner) Scan(ctx context.Context, paths []string, keywords []string) ([]string, error) {
	if len(keywords) == 0 {
		return nil, docfetchd.Errorf(docfetchd.EINVALID, "scan requires at least one keyword")
	}

	parallelism := s.Parallelism
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	readCap := s.ReadCap
	if readCap <= 0 {
		readCap = DefaultReadCap
	}

	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sem := semaphore.NewWeighted(int64(parallelism))
	matches := make([]bool, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer sem.Release(1)
			ok, err := matchesAll(path, readCap, lowered)
			if err != nil {
				logger.Warn("scan: skipping unreadable file", "path", path, "error", err)
				return
			}
			matches[i] = ok
		}(i, path)
	}
	wg.Wait()

	out := make([]string, 0, len(paths))
	for i, m := range matches {
		if m {
			out = append(out, paths[i])
		}
	}
	return out, nil
}

func matchesAll(path string, readCap int64, lowered []string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, readCap))
	if err != nil {
		return false, err
	}

	text, err := httpfetch.DecodeHTML(body, "")
	if err != nil {
		return false, err
	}
	text = strings.ToLower(text)

	for _, k := range lowered {
		if !strings.Contains(text, k) {
			return false, nil
		}
	}
	return true, nil
}
