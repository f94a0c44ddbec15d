package http

import (
	"net"
	"net/http"
)

// ClientIP returns the request's client address without the port. The router
// installs chi's RealIP middleware ahead of the handlers, so RemoteAddr has
// already been resolved through X-Forwarded-For / X-Real-IP where applicable.
func ClientIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
