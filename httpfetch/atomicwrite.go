package httpfetch

import (
	"os"
	"path/filepath"
)

// AtomicWrite writes data to targetPath via a temporary sibling file and
// an atomic rename, so readers never observe a partially written file.
// The temporary file lives on the same filesystem (same directory) as
// targetPath so the rename is guaranteed atomic. Shared by rodfetch.
func AtomicWrite(targetPath string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(targetPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".docfetchd-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, targetPath)
}
