package httpfetch

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// JSShellMaxBodyBytes and JSShellMaxTextNodes are the thresholds for the
// JS-shell heuristic, exposed as package-level variables rather than
// untyped constants. They are process-wide: every job in the process
// sees the same values.
var (
	JSShellMaxBodyBytes = 1024
	JSShellMaxTextNodes = 10
)

// DetectJSShell reports whether body looks like a near-empty HTML
// skeleton awaiting client-side rendering: short overall length, exactly
// one element with id "root" or "app", and few non-whitespace text nodes
// outside it.
func DetectJSShell(body string) bool {
	if len(body) >= JSShellMaxBodyBytes {
		return false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return false
	}

	shellRoots := doc.Find("#root, #app")
	if shellRoots.Length() != 1 {
		return false
	}

	outsideTextNodes := 0
	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		if s.Is("#root, #app") {
			return
		}
		if strings.TrimSpace(s.Text()) != "" {
			outsideTextNodes++
		}
	})

	return outsideTextNodes < JSShellMaxTextNodes
}

var paywallSignals = []string{
	"sign in",
	"log in",
	"subscribe",
	"create account",
}

// PaywallProximityWindow bounds how close together, in runes of the
// lower-cased page text, two paywall signals must appear to count as a
// proximity match.
const PaywallProximityWindow = 2000

// DetectPaywall reports whether the decoded page text looks like a
// paywall or login gate: two of the known signal phrases within
// PaywallProximityWindow runes of each other, or a standalone password
// input field.
func DetectPaywall(body string) bool {
	lower := strings.ToLower(body)

	if hasPasswordField(lower) {
		return true
	}

	var positions, signals []int
	for s, sig := range paywallSignals {
		idx := 0
		for {
			found := strings.Index(lower[idx:], sig)
			if found < 0 {
				break
			}
			positions = append(positions, utf8.RuneCountInString(lower[:idx+found]))
			signals = append(signals, s)
			idx += found + len(sig)
		}
	}
	if len(positions) < 2 {
		return false
	}

	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			if signals[i] == signals[j] {
				continue
			}
			d := positions[j] - positions[i]
			if d < 0 {
				d = -d
			}
			if d <= PaywallProximityWindow {
				return true
			}
		}
	}
	return false
}

func hasPasswordField(lowerHTML string) bool {
	return strings.Contains(lowerHTML, `type="password"`) || strings.Contains(lowerHTML, `type='password'`)
}
