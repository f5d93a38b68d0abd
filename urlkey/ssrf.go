package urlkey

import (
	"context"
	"net"
	"net/url"
	"strings"

	"github.com/docfetchd/docfetchd"
)

// blockedHostSuffixes are hostname tails that indicate an internal or
// link-local resource and are rejected before any DNS lookup is made.
// IANA's reserved documentation TLDs (.test, .example, .invalid) are
// deliberately excluded: those are guaranteed never to resolve to real
// infrastructure, so a suffix block buys nothing there, and this module's
// own end-to-end tests use "example.test"/"other.test" as fixture
// authorities.
var blockedHostSuffixes = []string{".local", ".internal", ".localhost"}

// Resolver resolves a hostname to IP addresses. net.DefaultResolver
// satisfies this; tests substitute a stub.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// GuardSSRF resolves the host component of canonicalURL and fails with
// docfetchd.FetchFailedSSRF-worthy error if it resolves to a loopback,
// link-local, private, multicast, or unspecified address.
func GuardSSRF(ctx context.Context, resolver Resolver, canonicalURL string) error {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return docfetchd.Errorf(docfetchd.EINVALID, "parse url: %v", err)
	}
	host := u.Hostname()

	if hasBlockedHostSuffix(host) {
		return docfetchd.Errorf(docfetchd.EINVALID, "host %s matches a disallowed internal-use suffix", host)
	}

	if ip := net.ParseIP(host); ip != nil {
		if unsafeIP(ip) {
			return docfetchd.Errorf(docfetchd.EINVALID, "host %s resolves to a disallowed address", host)
		}
		return nil
	}

	addrs, err := resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return docfetchd.Wrap(err, docfetchd.EINVALID, "resolve host %s", host)
	}
	if len(addrs) == 0 {
		return docfetchd.Errorf(docfetchd.EINVALID, "host %s did not resolve", host)
	}
	for _, a := range addrs {
		if unsafeIP(a.IP) {
			return docfetchd.Errorf(docfetchd.EINVALID, "host %s resolves to a disallowed address %s", host, a.IP)
		}
	}
	return nil
}

// hasBlockedHostSuffix reports whether host is bare "localhost" or ends in
// one of blockedHostSuffixes, matched on label boundaries so "notlocal.com"
// does not false-positive on ".local".
func hasBlockedHostSuffix(host string) bool {
	lower := strings.ToLower(host)
	if lower == "localhost" {
		return true
	}
	for _, suffix := range blockedHostSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// unsafeIP reports whether ip must never be fetched directly.
func unsafeIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsPrivate() ||
		ip.IsMulticast() ||
		ip.IsUnspecified()
}
