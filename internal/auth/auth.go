package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/orgdesa/orgdesa/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInactiveUser       = errors.New("user account is inactive")
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Authenticator is an interface for authentication providers
type Authenticator interface {
	// Login authenticates a user and returns a JWT token
	Login(email, password string) (*LoginResponse, error)

	// Middleware rejects requests without a valid token
	Middleware() gin.HandlerFunc

	// OptionalMiddleware resolves the viewer when a token is present and
	// lets anonymous requests through
	OptionalMiddleware() gin.HandlerFunc

	// GetUserFromContext extracts the authenticated user from the Gin context
	GetUserFromContext(c *gin.Context) (*models.User, error)
}
