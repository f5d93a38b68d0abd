package robots_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docfetchd/docfetchd/robots"
	"github.com/stretchr/testify/assert"
)

func TestPolicy_AllowAndDisallow(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprintln(w, "User-agent: *\nDisallow: /blocked")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := robots.New("docfetchd-test")
	assert.True(t, p.IsAllowed(context.Background(), srv.URL+"/allowed"))
	assert.False(t, p.IsAllowed(context.Background(), srv.URL+"/blocked"))
}

func TestPolicy_FourOhFourIsAllowAll(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := robots.New("docfetchd-test")
	assert.True(t, p.IsAllowed(context.Background(), srv.URL+"/anything"))
}

func TestPolicy_ServerErrorIsAllowAll(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := robots.New("docfetchd-test")
	assert.True(t, p.IsAllowed(context.Background(), srv.URL+"/anything"))
}

func TestPolicy_CachesPerAuthority(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			hits++
			fmt.Fprintln(w, "User-agent: *\nDisallow: /blocked")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := robots.New("docfetchd-test")
	for i := 0; i < 5; i++ {
		p.IsAllowed(context.Background(), srv.URL+"/allowed")
	}
	assert.Equal(t, 1, hits)
}
