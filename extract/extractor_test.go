package extract_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docfetchd/docfetchd/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHTML(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestExtractor_ReturnsTextOfEachMatch(t *testing.T) {
	t.Parallel()

	path := writeHTML(t, `<html><body>
		<h2>First Heading</h2>
		<h2>Second  Heading</h2>
	</body></html>`)

	e := extract.New()
	got, err := e.Extract(context.Background(), path, "h2", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"First Heading", "Second Heading"}, got)
}

func TestExtractor_FiltersByKeywordConjunction(t *testing.T) {
	t.Parallel()

	path := writeHTML(t, `<html><body>
		<p>Installing the CLI on Linux</p>
		<p>Installing the library on macOS</p>
	</body></html>`)

	e := extract.New()
	got, err := e.Extract(context.Background(), path, "p", []string{"installing", "linux"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Installing the CLI on Linux"}, got)
}

func TestExtractor_NoMatchesReturnsEmpty(t *testing.T) {
	t.Parallel()

	path := writeHTML(t, `<html><body><p>hello</p></body></html>`)

	e := extract.New()
	got, err := e.Extract(context.Background(), path, ".missing", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractor_InvalidSelectorIsClientError(t *testing.T) {
	t.Parallel()

	path := writeHTML(t, `<html><body><p>hello</p></body></html>`)

	e := extract.New()
	_, err := e.Extract(context.Background(), path, "###not-a-selector", nil)
	require.Error(t, err)
}
