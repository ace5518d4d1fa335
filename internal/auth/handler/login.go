package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpmonteiro/hackathon-starter/internal/auth/credentials"
	"github.com/rpmonteiro/hackathon-starter/internal/logger"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// genericCredentialsError is returned for both unknown-email and
// wrong-password failures so responses cannot be used to enumerate
// accounts.
const genericCredentialsError = "invalid email or password"

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.credentialService.Verify(
		c.Request.Context(),
		req.Email,
		req.Password,
	)
	if err != nil {
		if errors.Is(err, credentials.ErrUserNotFound) ||
			errors.Is(err, credentials.ErrInvalidCredentials) {
			logger.Debug("local login rejected", map[string]any{
				"reason": err.Error(),
			})
			c.JSON(http.StatusUnauthorized, gin.H{"error": genericCredentialsError})
			return
		}

		logger.Error("local login failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if err := h.establishSession(c, u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged_in"})
}
