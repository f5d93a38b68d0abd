package urlkey

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var unsafeSlugChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Map computes the path under contentRoot for a canonical URL:
// <contentRoot>/<authority>/<slug>-<hash>.<ext>. The hash guarantees two distinct URLs
// never collide on disk; the slug exists only to make the tree
// browsable.
func Map(contentRoot, canonicalURL, contentType string) (string, error) {
	authority, err := Authority(canonicalURL)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(canonicalURL)
	if err != nil {
		return "", err
	}

	slug := Slug(u.Path)
	hash := Hash(canonicalURL)
	ext := ExtFromContentType(contentType)

	name := fmt.Sprintf("%s-%s%s", slug, hash, ext)
	return filepath.Join(contentRoot, authority, name), nil
}

// Slug flattens a URL path into a filesystem-safe token: segments are
// joined by "-", unsafe characters are stripped, and an empty result
// becomes "index".
func Slug(urlPath string) string {
	segments := strings.Split(strings.Trim(urlPath, "/"), "/")
	var parts []string
	for _, s := range segments {
		s = unsafeSlugChars.ReplaceAllString(s, "-")
		s = strings.Trim(s, "-")
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "index"
	}
	slug := strings.Join(parts, "-")
	if len(slug) > 80 {
		slug = slug[:80]
	}
	return slug
}

// Hash returns a short hex digest of the canonical URL with at least 40
// bits of entropy (xxhash64 truncated to 10 hex chars = 40 bits).
func Hash(canonicalURL string) string {
	sum := xxhash.Sum64String(canonicalURL)
	return fmt.Sprintf("%010x", sum&0xFFFFFFFFFF)
}

// ExtFromContentType maps a response Content-Type to a file extension.
// Unrecognised or empty types fall back to ".bin".
func ExtFromContentType(contentType string) string {
	mediaType := contentType
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		mediaType = contentType[:idx]
	}
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))

	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return ".html"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
