// Package httpfetch implements docfetchd.Fetcher with a plain net/http
// client: stream the body under a size cap, sniff its encoding, write it
// to disk atomically, and pull out link candidates. It is the
// lightweight half of the two-fetcher contract described in the crawl
// engine's design; rodfetch is the browser-render half.
package httpfetch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves a URL over plain HTTP. It never executes JavaScript.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New creates a Fetcher that identifies itself with userAgent.
func New(userAgent string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{},
		userAgent: userAgent,
	}
}

// Fetch implements docfetchd.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, canonicalURL string, opts docfetchd.FetchOptions) (*docfetchd.FetchResult, error) {
	if err := ConfineToBase(opts.BaseDir, opts.TargetPath); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, canonicalURL, nil)
	if err != nil {
		return nil, docfetchd.Wrap(err, docfetchd.EINVALID, "build request for %s", canonicalURL)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return &docfetchd.FetchResult{
			Status:       docfetchd.FetchFailedRequest,
			ErrorMessage: truncate(err.Error(), 2000),
		}, nil
	}
	defer resp.Body.Close()

	body, truncated, err := readLimited(resp.Body, opts.MaxBodySize)
	if err != nil {
		return &docfetchd.FetchResult{
			Status:       docfetchd.FetchFailedRequest,
			HTTPStatus:   resp.StatusCode,
			ErrorMessage: truncate(err.Error(), 2000),
		}, nil
	}
	if truncated {
		return &docfetchd.FetchResult{
			Status:       docfetchd.FetchFailedTooBig,
			HTTPStatus:   resp.StatusCode,
			ErrorMessage: fmt.Sprintf("body exceeded %d bytes", opts.MaxBodySize),
		}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return &docfetchd.FetchResult{
			Status:       docfetchd.FetchFailedRequest,
			HTTPStatus:   resp.StatusCode,
			ErrorMessage: fmt.Sprintf("http status %d", resp.StatusCode),
		}, nil
	}

	contentType := resp.Header.Get("Content-Type")
	decoded, err := DecodeHTML(body, contentType)
	if err != nil {
		return &docfetchd.FetchResult{
			Status:       docfetchd.FetchFailedOther,
			HTTPStatus:   resp.StatusCode,
			ErrorMessage: truncate(err.Error(), 2000),
		}, nil
	}

	if DetectPaywall(decoded) {
		return &docfetchd.FetchResult{
			Status:     docfetchd.FetchFailedPaywall,
			HTTPStatus: resp.StatusCode,
		}, nil
	}

	links, err := ExtractLinks(decoded)
	if err != nil {
		links = nil
	}

	sum := md5.Sum(body)
	hash := hex.EncodeToString(sum[:])

	if err := AtomicWrite(opts.TargetPath, body, 0o644); err != nil {
		return nil, docfetchd.Wrap(err, docfetchd.EINTERNAL, "write %s", opts.TargetPath)
	}

	return &docfetchd.FetchResult{
		Status:         docfetchd.FetchSuccess,
		HTTPStatus:     resp.StatusCode,
		ContentHash:    hash,
		DetectedLinks:  links,
		JSShellSuspect: DetectJSShell(decoded),
	}, nil
}

// ConfineToBase rejects a target path that resolves outside baseDir,
// before any network or filesystem activity.
func ConfineToBase(baseDir, target string) error {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return docfetchd.Wrap(err, docfetchd.EINVALID, "resolve base dir")
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return docfetchd.Wrap(err, docfetchd.EINVALID, "resolve target path")
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || strings.HasPrefix(rel, "..") {
		return docfetchd.Errorf(docfetchd.EINVALID, "target path %s escapes base directory %s", target, baseDir)
	}
	return nil
}

// readLimited reads at most max+1 bytes, reporting truncated=true if the
// stream had more than max bytes available.
func readLimited(r io.Reader, max int64) (data []byte, truncated bool, err error) {
	limited := io.LimitReader(r, max+1)
	data, err = io.ReadAll(limited)
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > max {
		return data[:max], true, nil
	}
	return data, false, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
