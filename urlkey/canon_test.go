package urlkey_test

import (
	"testing"

	"github.com/docfetchd/docfetchd/urlkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases scheme and host", "HTTP://Example.COM/a", "http://example.com/a"},
		{"strips default http port", "http://example.com:80/a", "http://example.com/a"},
		{"strips default https port", "https://example.com:443/a", "https://example.com/a"},
		{"keeps non-default port", "http://example.com:8080/a", "http://example.com:8080/a"},
		{"removes fragment", "http://example.com/a#section", "http://example.com/a"},
		{"preserves trailing slash", "http://example.com/a/", "http://example.com/a/"},
		{"preserves query verbatim", "http://example.com/a?z=1&a=2", "http://example.com/a?z=1&a=2"},
		{"resolves dot segments", "http://example.com/a/../b", "http://example.com/b"},
		{"empty path stays empty", "http://example.com", "http://example.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := urlkey.Canonicalize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCanonicalize_FragmentOnlyDifference(t *testing.T) {
	t.Parallel()

	a, err := urlkey.Canonicalize("http://example.com/a#one")
	require.NoError(t, err)
	b, err := urlkey.Canonicalize("http://example.com/a#two")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCanonicalize_RejectsMissingHost(t *testing.T) {
	t.Parallel()
	_, err := urlkey.Canonicalize("/relative/path")
	assert.Error(t, err)
}

func TestAuthority(t *testing.T) {
	t.Parallel()
	a, err := urlkey.Authority("http://example.com:8080/a")
	require.NoError(t, err)
	assert.Equal(t, "example.com:8080", a)
}

func TestResolve(t *testing.T) {
	t.Parallel()
	got, err := urlkey.Resolve("http://example.com/docs/a", "../b")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/b", got)
}
