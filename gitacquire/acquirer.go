// Package gitacquire implements the repo acquisition shim: clone a
// source repository with go-git, copy its documentation subtree into a
// job's content directory, and emit one index row per file copied.
//
// Git acquisition mechanics themselves (protocol negotiation, pack
// transfer, ref resolution) are an external collaborator's concern;
// this package is the thin orchestration around go-git that makes a
// repo job behave like a web job from the index's point of view.
package gitacquire

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/docfetchd/docfetchd"
	"github.com/docfetchd/docfetchd/httpfetch"
	gogit "github.com/go-git/go-git/v5"
)

// Acquirer clones a repository and copies its documentation subtree into
// the content root, emitting index rows as it goes.
type Acquirer struct {
	Index       docfetchd.IndexStore
	ContentRoot string
}

// New creates an Acquirer rooted at contentRoot, writing index rows via
// store.
func New(store docfetchd.IndexStore, contentRoot string) *Acquirer {
	return &Acquirer{Index: store, ContentRoot: contentRoot}
}

// Acquire implements jobmanager.RepoAcquirer.
func (a *Acquirer) Acquire(ctx context.Context, jobID, repoURL, docSubpath string, force bool) error {
	writer, err := a.Index.Writer(ctx, jobID)
	if err != nil {
		return err
	}
	defer writer.Close()

	cloneDir, err := os.MkdirTemp("", "docfetchd-clone-*")
	if err != nil {
		return docfetchd.Wrap(err, docfetchd.EINTERNAL, "create clone scratch dir")
	}
	defer os.RemoveAll(cloneDir)

	_, err = gogit.PlainCloneContext(ctx, cloneDir, false, &gogit.CloneOptions{
		URL:   repoURL,
		Depth: 1,
	})
	if err != nil {
		return docfetchd.Wrap(err, docfetchd.EINVALID, "clone %s", repoURL)
	}

	sourceDir := cloneDir
	if docSubpath != "" {
		sourceDir = filepath.Join(cloneDir, docSubpath)
	}
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return docfetchd.Errorf(docfetchd.EINVALID, "doc_subpath %q not found in %s", docSubpath, repoURL)
	}

	destRoot := filepath.Join(a.ContentRoot, jobID)
	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return docfetchd.Wrap(err, docfetchd.EINTERNAL, "create content dir")
	}

	return filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		destPath := filepath.Join(destRoot, rel)
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return err
		}

		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !force {
			if _, statErr := os.Stat(destPath); statErr == nil {
				return nil
			}
		}
		if err := httpfetch.AtomicWrite(destPath, body, 0o644); err != nil {
			return err
		}

		sum := md5.Sum(body)
		pseudoURL := "repo://" + strings.TrimPrefix(repoURL, "https://") + "/" + filepath.ToSlash(rel)
		return writer.Append(ctx, &docfetchd.IndexRecord{
			OriginalURL:  pseudoURL,
			CanonicalURL: pseudoURL,
			LocalPath:    destPath,
			ContentHash:  hex.EncodeToString(sum[:]),
			FetchStatus:  docfetchd.FetchSuccess,
		})
	})
}
