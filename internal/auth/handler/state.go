package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rpmonteiro/hackathon-starter/internal/utils"
)

// Cookies carrying the one-shot secrets of an OAuth flow between the
// start request and the provider callback.
const (
	stateCookieName = "__oauth_state"
	pkceCookieName  = "__oauth_pkce"

	flowCookieTTL = 5 * time.Minute
)

func setFlowCookie(c *gin.Context, name, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(flowCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// generateState issues the CSRF state for an auth-start request and
// keeps it in a short-lived cookie for the callback to compare.
func generateState(c *gin.Context) string {
	state := utils.RandomString(32)
	setFlowCookie(c, stateCookieName, state)
	return state
}

// validateState checks the state echoed by the provider against the
// cookie issued at flow start.
func validateState(c *gin.Context) bool {
	echoed := c.Query("state")
	if echoed == "" {
		return false
	}

	cookie, err := c.Request.Cookie(stateCookieName)
	if err != nil {
		return false
	}
	return cookie.Value == echoed
}
