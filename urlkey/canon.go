// Package urlkey canonicalises URLs into the stable key used for the
// visited set, the index, and on-disk path mapping, and maps a canonical
// URL to a deterministic path under a content root.
package urlkey

import (
	"net/url"
	"path"
	"strings"

	"github.com/docfetchd/docfetchd"
)

// Canonicalize normalises rawURL per the following rules, applied in
// order: scheme and host lowercased; default ports stripped (80 for http,
// 443 for https); fragment removed; path segments percent-decoded then
// re-encoded with Go's canonical escaping; trailing "/" on paths
// preserved; query string preserved verbatim; "." and ".." segments
// resolved.
func Canonicalize(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", docfetchd.Errorf(docfetchd.EINVALID, "parse url: %v", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", docfetchd.Errorf(docfetchd.EINVALID, "url %q missing scheme or host", rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = canonicalizeHost(u.Scheme, u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	trailingSlash := strings.HasSuffix(u.Path, "/") && u.Path != ""
	cleaned := path.Clean(u.Path)
	if cleaned == "." {
		cleaned = ""
	}
	if trailingSlash && !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}
	u.Path = cleaned
	u.RawPath = ""

	return u.String(), nil
}

// canonicalizeHost lowercases the host and strips the default port for
// the given scheme.
func canonicalizeHost(scheme, host string) string {
	host = strings.ToLower(host)
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		return strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		return strings.TrimSuffix(host, ":443")
	default:
		return host
	}
}

// Authority returns the host[:port] component of a canonical URL.
func Authority(canonicalURL string) (string, error) {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return "", docfetchd.Errorf(docfetchd.EINVALID, "parse url: %v", err)
	}
	return u.Host, nil
}

// Resolve turns a possibly-relative link found on a page into an absolute
// URL, relative to base.
func Resolve(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", docfetchd.Errorf(docfetchd.EINVALID, "parse base url: %v", err)
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", docfetchd.Errorf(docfetchd.EINVALID, "parse link: %v", err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
