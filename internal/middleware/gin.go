package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ginWrap bridges a net/http middleware into a Gin handler so the gate
// logic stays framework-agnostic.
func ginWrap(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		handler := mw(next)
		handler.ServeHTTP(c.Writer, c.Request)

		// If the gate already wrote a response, stop the Gin chain.
		if c.Writer.Written() {
			c.Abort()
			return
		}
	}
}

// GinRequireAuth adapts RequireAuth to Gin.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return ginWrap(auth.RequireAuth)
}

// GinRequireProviderAuthorized adapts RequireProviderAuthorized to Gin.
func GinRequireProviderAuthorized(auth *AuthMiddleware) gin.HandlerFunc {
	return ginWrap(auth.RequireProviderAuthorized)
}
