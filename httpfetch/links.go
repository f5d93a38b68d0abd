package httpfetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docfetchd/docfetchd"
)

// ExtractLinks pulls raw link candidates out of decoded HTML: every
// anchor href, and the src of every frame/iframe/script. javascript:,
// mailto:, and data: links are discarded here since they are never
// resolvable to a fetchable URL. Resolution against the page's base URL
// and canonicalisation happen later, in the crawl engine.
func ExtractLinks(html string) ([]docfetchd.DiscoveredLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docfetchd.Errorf(docfetchd.EINVALID, "parse html: %v", err)
	}

	var links []docfetchd.DiscoveredLink
	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" || isIgnoredScheme(raw) {
			return
		}
		links = append(links, docfetchd.DiscoveredLink{RawURL: raw})
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			add(href)
		}
	})
	doc.Find("frame[src], iframe[src], script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			add(src)
		}
	})

	return links, nil
}

func isIgnoredScheme(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "data:")
}
