package http_test

import (
	"net/http/httptest"
	"testing"

	pkghttp "github.com/ancook/bazaar/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestClientIP_StripsPort(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.10:54321"

	assert.Equal(t, "203.0.113.10", pkghttp.ClientIP(req))
}

func TestClientIP_IPv6(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "[2001:db8::1]:54321"

	assert.Equal(t, "2001:db8::1", pkghttp.ClientIP(req))
}

func TestClientIP_NoPort(t *testing.T) {
	// chi's RealIP middleware rewrites RemoteAddr without a port
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.10"

	assert.Equal(t, "203.0.113.10", pkghttp.ClientIP(req))
}

func TestClientIP_Empty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = ""

	assert.Equal(t, "unknown", pkghttp.ClientIP(req))
}
