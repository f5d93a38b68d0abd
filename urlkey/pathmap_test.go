package urlkey_test

import (
	"testing"

	"github.com/docfetchd/docfetchd/urlkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", "index"},
		{"/", "index"},
		{"/a/b/c", "a-b-c"},
		{"/a//b", "a-b"},
		{"/weird chars!@#", "weird-chars"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, urlkey.Slug(tc.in))
	}
}

func TestExtFromContentType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".html", urlkey.ExtFromContentType("text/html; charset=utf-8"))
	assert.Equal(t, ".pdf", urlkey.ExtFromContentType("application/pdf"))
	assert.Equal(t, ".bin", urlkey.ExtFromContentType("application/octet-stream"))
	assert.Equal(t, ".bin", urlkey.ExtFromContentType(""))
}

func TestHash_StableAndDistinct(t *testing.T) {
	t.Parallel()

	a := urlkey.Hash("http://example.com/a")
	b := urlkey.Hash("http://example.com/b")
	aAgain := urlkey.Hash("http://example.com/a")

	assert.Equal(t, a, aAgain)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 10)
}

func TestMap_DistinctURLsNeverCollide(t *testing.T) {
	t.Parallel()

	p1, err := urlkey.Map("/content/job1", "http://example.com/a", "text/html")
	require.NoError(t, err)
	p2, err := urlkey.Map("/content/job1", "http://example.com/a?x=1", "text/html")
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
}
