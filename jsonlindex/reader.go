package jsonlindex

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.IndexReader = (*Reader)(nil)

// Reader streams IndexRecords from a job's index file in file order.
type Reader struct {
	file *os.File
}

// NewReader opens the index file at path. Returns docfetchd.ENOTFOUND if
// it does not exist.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docfetchd.Errorf(docfetchd.ENOTFOUND, "no index for path %s", path)
		}
		return nil, docfetchd.Wrap(err, docfetchd.EINTERNAL, "open index file")
	}
	return &Reader{file: f}, nil
}

// Each invokes fn once per record, in file order. Blank lines (including
// a trailing one) are skipped; unknown JSON keys are ignored by
// encoding/json's default decode behaviour.
func (r *Reader) Each(ctx context.Context, fn func(*docfetchd.IndexRecord) error) error {
	scanner := bufio.NewScanner(r.file)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec docfetchd.IndexRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return docfetchd.Wrap(err, docfetchd.EINTERNAL, "parse index line")
		}
		if err := fn(&rec); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return docfetchd.Wrap(err, docfetchd.EINTERNAL, "scan index file")
	}
	return nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
