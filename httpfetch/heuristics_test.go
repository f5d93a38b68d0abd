package httpfetch_test

import (
	"testing"

	"github.com/docfetchd/docfetchd/httpfetch"
	"github.com/stretchr/testify/assert"
)

func TestDetectJSShell(t *testing.T) {
	t.Parallel()
	assert.True(t, httpfetch.DetectJSShell(`<html><body><div id="root"></div></body></html>`))
	assert.False(t, httpfetch.DetectJSShell(`<html><body><p>hello world, this has real content already rendered server-side</p></body></html>`))
}

func TestDetectPaywall(t *testing.T) {
	t.Parallel()
	assert.True(t, httpfetch.DetectPaywall(`please sign in or log in to continue reading this article`))
	assert.True(t, httpfetch.DetectPaywall(`<input type="password">`))
	assert.False(t, httpfetch.DetectPaywall(`hello world, nothing special here`))
}
