package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rpmonteiro/hackathon-starter/internal/session"
	"github.com/rpmonteiro/hackathon-starter/internal/user"
)

// unexported, collision-proof context key
type userContextKeyType struct{}

var userKey = userContextKeyType{}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey).(*user.User)
	return u, ok
}

const loginPath = "/login"

type AuthMiddleware struct {
	Sessions session.Store
	Identity *session.IdentityAdapter
}

func NewAuthMiddleware(sessions session.Store, identity *session.IdentityAdapter) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions, Identity: identity}
}

// RequireAuth resolves the request's session to a user record and
// attaches it to the context. Unauthenticated requests are redirected
// to the login entry point.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		sessionID := cookie.Value

		sess, err := a.Sessions.Get(r.Context(), sessionID)
		if err != nil {
			http.Error(w, "session lookup failed", http.StatusInternalServerError)
			return
		}
		if sess == nil {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		if time.Now().After(sess.ExpiresAt) {
			_ = a.Sessions.Delete(r.Context(), sessionID)
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		// Fresh lookup on every request: linking events from other
		// requests must be visible here immediately.
		u, err := a.Identity.Deserialize(r.Context(), sess.UserID)
		if err == user.ErrNotFound {
			// The account behind the session is gone.
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}
		if err != nil {
			http.Error(w, "user lookup failed", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
