package ratelimit

import (
	"fmt"
	"net"
	"net/http"

	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// KeyFunc derives the limiter scope for a request.
type KeyFunc func(*http.Request) string

// KeyByIP scopes by remote address, for anonymous endpoints.
func KeyByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// KeyBySubject scopes by authenticated user id when present, falling
// back to the remote address.
func KeyBySubject(r *http.Request) string {
	if identity := shared.IdentityFromContext(r.Context()); identity != nil {
		return fmt.Sprintf("u:%d", identity.ID)
	}
	return KeyByIP(r)
}

// KeyByEndpoint scopes by (subject, method, path) for per-endpoint limits.
func KeyByEndpoint(r *http.Request) string {
	return fmt.Sprintf("%s:%s:%s", KeyBySubject(r), r.Method, r.URL.Path)
}
