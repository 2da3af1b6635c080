package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/orgdesa/orgdesa/internal/audit"
	"github.com/orgdesa/orgdesa/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// UserContextKey is the key used to store user in Gin context
	UserContextKey = "user"
	// DefaultTokenDuration is the validity period for JWT tokens
	DefaultTokenDuration = 24 * time.Hour
)

// BasicAuthenticator implements email/password authentication
type BasicAuthenticator struct {
	db        *gorm.DB
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewBasicAuthenticator creates a new basic authenticator
func NewBasicAuthenticator(db *gorm.DB, jwtSecret string, ttl time.Duration) *BasicAuthenticator {
	if ttl <= 0 {
		ttl = DefaultTokenDuration
	}
	return &BasicAuthenticator{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks if a password matches the hash
func VerifyPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"user_id"` // UUID stored as string
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Login authenticates a user and returns a JWT token
func (a *BasicAuthenticator) Login(email, password string) (*LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	result := a.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Warn("Login attempt with unknown email", "email", email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	if user.PasswordHash == "" || !VerifyPassword(user.PasswordHash, password) {
		slog.Warn("Login attempt with incorrect password", "email", email)
		audit.LogAction(a.db, user.ID, audit.ActionLoginFailed, audit.Resource("user", user.ID), nil)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		slog.Warn("Login attempt by inactive user", "user_id", user.ID)
		return nil, ErrInactiveUser
	}

	if err := a.stampLogin(&user); err != nil {
		return nil, err
	}

	token, err := a.generateToken(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	audit.LogAction(a.db, user.ID, audit.ActionLogin, audit.Resource("user", user.ID), nil)
	slog.Info("User logged in successfully", "user_id", user.ID, "role", user.Role)
	return &LoginResponse{
		Token: token,
		User:  &user,
	}, nil
}

func (a *BasicAuthenticator) stampLogin(user *models.User) error {
	at := a.now().UTC()
	if err := a.db.Model(user).UpdateColumn("last_login_at", at).Error; err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLoginAt = &at
	return nil
}

// generateToken creates a JWT token for a user
func (a *BasicAuthenticator) generateToken(user *models.User) (string, error) {
	now := a.now()
	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "orgdesa",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// validateToken validates a JWT token and returns claims
func (a *BasicAuthenticator) validateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrUnauthorized
}

// tokenFromRequest reads a bearer token from the Authorization header, or
// from ?token= so download links can be opened directly. ok is false when
// the header is present but malformed.
func tokenFromRequest(c *gin.Context) (token string, ok bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return c.Query("token"), true
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Middleware returns a Gin middleware that requires a valid token.
func (a *BasicAuthenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := tokenFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		a.resolve(c, tokenString)
	}
}

// OptionalMiddleware resolves the viewer when a token is sent. Requests
// without one continue as anonymous; a bad token is still rejected.
func (a *BasicAuthenticator) OptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := tokenFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}
		if tokenString == "" {
			c.Next()
			return
		}
		a.resolve(c, tokenString)
	}
}

func (a *BasicAuthenticator) resolve(c *gin.Context, tokenString string) {
	user, err := a.validateAndLoadUser(tokenString)
	if err != nil {
		slog.Warn("Invalid token", "error", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	c.Set(UserContextKey, user)
	c.Next()
}

// validateAndLoadUser validates a JWT and loads the active user it names.
func (a *BasicAuthenticator) validateAndLoadUser(tokenString string) (*models.User, error) {
	claims, err := a.validateToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	var user models.User
	if result := a.db.First(&user, "id = ?", userID); result.Error != nil {
		return nil, fmt.Errorf("user not found: %w", result.Error)
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return &user, nil
}

// GetUserFromContext extracts the authenticated user from the Gin context
func (a *BasicAuthenticator) GetUserFromContext(c *gin.Context) (*models.User, error) {
	return UserFromContext(c)
}

// UserFromContext returns the viewer stored by the middleware, or
// ErrUnauthorized for anonymous requests.
func UserFromContext(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil, ErrUnauthorized
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, errors.New("invalid user in context")
	}
	return user, nil
}
