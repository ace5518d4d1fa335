package middleware

import (
	"net/http"
	"strings"
)

// RequireProviderAuthorized gates routes that call out to a provider's
// API. The target provider is the final segment of the request path
// (e.g. /api/facebook); the gate passes only when the current user
// holds a token for that provider, otherwise it redirects into the
// provider's auth flow. Must run after RequireAuth.
func (a *AuthMiddleware) RequireProviderAuthorized(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		provider := providerFromPath(r.URL.Path)
		if provider == "" {
			http.NotFound(w, r)
			return
		}

		if _, ok := u.TokenFor(provider); !ok {
			http.Redirect(w, r, "/auth/"+provider, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func providerFromPath(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return ""
	}
	return trimmed[idx+1:]
}
