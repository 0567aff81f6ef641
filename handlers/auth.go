package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sushi-shop-api/middleware"
)

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an admin and returns a bearer token for the console
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.Repo.LoginAdmin(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := middleware.GenerateToken(session, []byte(h.Cfg.Server.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"session": session,
	})
}

// Logout clears the provider session; idempotent
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Repo.LogoutAdmin(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the active admin session, null when none exists
func (h *Handler) Me(c *gin.Context) {
	session, err := h.Repo.GetCurrentAdmin(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": session})
}
