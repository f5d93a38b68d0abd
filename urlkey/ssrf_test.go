package urlkey_test

import (
	"context"
	"net"
	"testing"

	"github.com/docfetchd/docfetchd/urlkey"
	"github.com/stretchr/testify/assert"
)

type stubResolver struct {
	addrs []net.IPAddr
	err   error
}

func (s *stubResolver) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	return s.addrs, s.err
}

func TestGuardSSRF_LiteralLoopback(t *testing.T) {
	t.Parallel()
	err := urlkey.GuardSSRF(context.Background(), &stubResolver{}, "http://127.0.0.1/a")
	assert.Error(t, err)
}

func TestGuardSSRF_ResolvesToPrivate(t *testing.T) {
	t.Parallel()
	r := &stubResolver{addrs: []net.IPAddr{{IP: net.ParseIP("10.0.0.5")}}}
	err := urlkey.GuardSSRF(context.Background(), r, "http://internal.example.com/a")
	assert.Error(t, err)
}

func TestGuardSSRF_AllowsPublic(t *testing.T) {
	t.Parallel()
	r := &stubResolver{addrs: []net.IPAddr{{IP: net.ParseIP("93.184.216.34")}}}
	err := urlkey.GuardSSRF(context.Background(), r, "http://example.com/a")
	assert.NoError(t, err)
}

func TestGuardSSRF_BlocksHostnameSuffixesBeforeResolution(t *testing.T) {
	t.Parallel()
	r := &stubResolver{addrs: []net.IPAddr{{IP: net.ParseIP("93.184.216.34")}}}

	for _, host := range []string{"localhost", "printer.local", "host.internal", "foo.localhost"} {
		err := urlkey.GuardSSRF(context.Background(), r, "http://"+host+"/a")
		assert.Errorf(t, err, "expected %s to be blocked", host)
	}
}

func TestGuardSSRF_DoesNotBlockReservedTestDomains(t *testing.T) {
	t.Parallel()
	r := &stubResolver{addrs: []net.IPAddr{{IP: net.ParseIP("93.184.216.34")}}}

	for _, host := range []string{"example.test", "other.test", "a.example", "b.invalid"} {
		err := urlkey.GuardSSRF(context.Background(), r, "http://"+host+"/a")
		assert.NoErrorf(t, err, "expected %s not to be blocked", host)
	}
}
