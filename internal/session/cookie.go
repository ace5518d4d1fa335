package session

import (
	"net/http"
	"time"
)

// CookieName carries the __Host- prefix, which pins the cookie to
// Path=/ on a secure origin with no Domain attribute. The attributes
// below are therefore fixed, not configurable.
const CookieName = "__Host-session"

func baseCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetCookie issues the session cookie, expiring alongside the session
// record itself.
func SetCookie(w http.ResponseWriter, sessionID string, expiresAt time.Time) {
	c := baseCookie()
	c.Value = sessionID
	c.Expires = expiresAt
	http.SetCookie(w, c)
}

// ClearCookie tells the client to drop the session cookie.
func ClearCookie(w http.ResponseWriter) {
	c := baseCookie()
	c.MaxAge = -1
	http.SetCookie(w, c)
}
