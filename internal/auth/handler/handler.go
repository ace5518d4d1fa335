package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rpmonteiro/hackathon-starter/internal/auth/credentials"
	"github.com/rpmonteiro/hackathon-starter/internal/auth/provider"
	"github.com/rpmonteiro/hackathon-starter/internal/auth/resolver"
	"github.com/rpmonteiro/hackathon-starter/internal/logger"
	"github.com/rpmonteiro/hackathon-starter/internal/session"
	"github.com/rpmonteiro/hackathon-starter/internal/user"
)

const sessionTTL = 24 * time.Hour

type Handler struct {
	providers         *provider.Registry
	sessionStore      session.Store
	identity          *session.IdentityAdapter
	resolver          resolver.Resolver
	credentialService *credentials.Service
}

func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	identity *session.IdentityAdapter,
	identityResolver resolver.Resolver,
	credentialService *credentials.Service,
) *Handler {
	return &Handler{
		providers:         registry,
		sessionStore:      sessionStore,
		identity:          identity,
		resolver:          identityResolver,
		credentialService: credentialService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/:provider", h.oauthLogin)
	r.GET("/auth/:provider/callback", h.oauthCallback)

	r.POST("/login", h.Login)
	r.POST("/signup", h.Signup)
	r.POST("/logout", h.Logout)
	r.POST("/forgot", h.Forgot)
	r.POST("/reset/:token", h.Reset)
}

func (h *Handler) oauthLogin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := p.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oauth callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "missing pkce verifier",
		})
		return
	}

	identity, err := p.ExchangeCode(
		c.Request.Context(),
		code,
		codeVerifier,
	)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authentication failed",
		})
		return
	}

	current, err := h.currentUser(c)
	if err != nil {
		// A store failure here must not demote the request to the
		// anonymous branch: that would create a second account for an
		// identity the session user meant to link.
		logger.Error("session lookup failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to resolve user",
		})
		return
	}

	outcome, err := h.resolver.Resolve(c.Request.Context(), identity, current)
	if err != nil {
		logger.Error("identity resolution failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to resolve user",
		})
		return
	}

	switch outcome.Kind {
	case resolver.OutcomeConflict:
		c.JSON(http.StatusConflict, gin.H{
			"error": outcome.Message,
		})

	case resolver.OutcomeLinked:
		logger.Info("provider linked", map[string]any{
			"provider": providerName,
			"user_id":  outcome.User.ID,
		})
		c.JSON(http.StatusOK, gin.H{
			"status":   "linked",
			"provider": providerName,
		})

	case resolver.OutcomeSignedIn, resolver.OutcomeCreated:
		if err := h.establishSession(c, outcome.User); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "failed to create session",
			})
			return
		}

		status := "authenticated"
		code := http.StatusOK
		if outcome.Kind == resolver.OutcomeCreated {
			status = "registered"
			code = http.StatusCreated
		}

		logger.Info("oauth sign-in", map[string]any{
			"provider": providerName,
			"user_id":  outcome.User.ID,
			"status":   status,
		})
		c.JSON(code, gin.H{"status": status})
	}
}

// currentUser resolves the request's session to a user. A missing or
// expired session means an anonymous request (nil, nil); a session- or
// user-store failure is an error the caller must not swallow.
func (h *Handler) currentUser(c *gin.Context) (*user.User, error) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	sess, err := h.sessionStore.Get(c.Request.Context(), cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("handler: load session: %w", err)
	}
	if sess == nil || time.Now().After(sess.ExpiresAt) {
		return nil, nil
	}

	u, err := h.identity.Deserialize(c.Request.Context(), sess.UserID)
	if err == user.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("handler: load session user: %w", err)
	}
	return u, nil
}

func (h *Handler) establishSession(c *gin.Context, u *user.User) error {
	sessionID, err := session.GenerateID()
	if err != nil {
		return err
	}

	now := time.Now()
	expiresAt := now.Add(sessionTTL)

	err = h.sessionStore.Create(c.Request.Context(), session.Session{
		SessionID: sessionID,
		UserID:    h.identity.Serialize(u),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return err
	}

	session.SetCookie(c.Writer, sessionID, expiresAt)
	return nil
}

func (h *Handler) Logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		// Best-effort delete; the cookie is cleared regardless.
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
	}

	session.ClearCookie(c.Writer)

	c.Status(http.StatusNoContent)
}
