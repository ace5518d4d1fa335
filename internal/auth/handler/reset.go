package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpmonteiro/hackathon-starter/internal/auth/credentials"
	"github.com/rpmonteiro/hackathon-starter/internal/logger"
)

type forgotRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Password string `json:"password"`
}

// Forgot issues a password reset token. The response is identical
// whether or not the email is registered.
func (h *Handler) Forgot(c *gin.Context) {
	var req forgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.credentialService.CreateResetToken(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, credentials.ErrUserNotFound) {
		logger.Error("password reset token issue failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
		return
	}

	// Token delivery (email) happens outside this service.
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Reset(c *gin.Context) {
	token := c.Param("token")

	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.credentialService.ResetPassword(c.Request.Context(), token, req.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrResetTokenInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "password reset token is invalid or has expired",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.establishSession(c, u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "password_reset"})
}
