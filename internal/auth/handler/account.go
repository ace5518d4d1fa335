package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpmonteiro/hackathon-starter/internal/middleware"
)

// Account returns the current user's record. Runs behind RequireAuth,
// so the context user is always present and freshly loaded.
func (h *Handler) Account(c *gin.Context) {
	u, ok := middleware.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	providers := make([]string, 0, len(u.Bindings))
	for provider := range u.Bindings {
		providers = append(providers, provider)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      u.ID,
		"email":   u.Email,
		"linked":  providers,
		"profile": gin.H{
			"name":     u.Profile.Name,
			"gender":   u.Profile.Gender,
			"picture":  u.Profile.Picture,
			"location": u.Profile.Location,
		},
	})
}

// ProviderToken reports the stored token for the provider implied by
// the request path. Runs behind both gates; RequireProviderAuthorized
// guarantees the token exists.
func (h *Handler) ProviderToken(c *gin.Context) {
	u, ok := middleware.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	provider := c.Param("provider")
	token, ok := u.TokenFor(provider)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "provider not authorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider":           provider,
		"access_token_set":   token.AccessToken != "",
		"refresh_secret_set": token.RefreshSecret != "",
	})
}
