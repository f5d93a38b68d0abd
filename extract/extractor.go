// Package extract implements the structural extractor: the precise
// second phase of search, pulling text out of one HTML file via a CSS
// selector.
package extract

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/docfetchd/docfetchd"
	"github.com/docfetchd/docfetchd/httpfetch"
)

var _ docfetchd.Extractor = (*Extractor)(nil)

// Extractor parses one file with a tolerant HTML parser and collects the
// whitespace-normalised text of every element matching a CSS selector.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Extract implements docfetchd.Extractor. A selector that fails to parse
// surfaces as an EINVALID client error.
func (e *Extractor) Extract(ctx context.Context, path string, selector string, keywords []string) ([]string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, docfetchd.Wrap(err, docfetchd.EINTERNAL, "read %s", path)
	}
	text, err := httpfetch.DecodeHTML(body, "")
	if err != nil {
		return nil, docfetchd.Wrap(err, docfetchd.EINTERNAL, "decode %s", path)
	}

	if _, parseErr := cascadia.Parse(selector); parseErr != nil {
		return nil, docfetchd.Wrap(parseErr, docfetchd.EINVALID, "parse selector %q", selector)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, docfetchd.Wrap(err, docfetchd.EINTERNAL, "parse html %s", path)
	}

	sel := doc.Find(selector)

	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		normalized := normalizeText(s.Text())
		if normalized == "" {
			return
		}
		if !containsAll(strings.ToLower(normalized), lowered) {
			return
		}
		out = append(out, normalized)
	})

	return out, nil
}

func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func containsAll(haystack string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(haystack, k) {
			return false
		}
	}
	return true
}
