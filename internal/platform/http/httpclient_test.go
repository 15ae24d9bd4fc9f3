package http

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(10 * time.Second)

	if c.Timeout != 10*time.Second {
		t.Errorf("expected timeout %v, got %v", 10*time.Second, c.Timeout)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", c.Transport)
	}
	if tr.TLSHandshakeTimeout != 5*time.Second {
		t.Errorf("expected TLS handshake timeout 5s, got %v", tr.TLSHandshakeTimeout)
	}
	if tr.Proxy == nil {
		t.Error("expected proxy from environment")
	}
}
