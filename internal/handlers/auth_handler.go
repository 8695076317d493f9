package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthdesk-api/internal/models"
	"github.com/harentsoaR/healthdesk-api/internal/validation"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser creates an account. The payload is checked by the account
// service, not by gin's binding.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req validation.AccountCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	account, err := h.Accounts.Register(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// Login checks credentials. No token is issued.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	account, err := h.Accounts.Authenticate(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{User: account, Message: "Login successful"})
}

// GetCurrentUser looks an account up by the email query parameter,
// e.g. /api/auth/users/me?email=jane@x.com.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "email query parameter is required",
			"fields": gin.H{"email": "is required"},
		})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	account, err := h.Accounts.GetByIdentifier(ctx, email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}
