package web

import (
	"net/http"

	"github.com/JonMunkholm/explorer/internal/core"
)

// withClientIP stores the client IP in the request context for service
// logging. It runs after TrustedRealIP has resolved RemoteAddr.
func withClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.ContextWithClientIP(r.Context(), remoteHost(r.RemoteAddr))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
