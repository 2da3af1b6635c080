package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/orgdesa/orgdesa/internal/audit"
	"github.com/orgdesa/orgdesa/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// OIDCAuthenticator provides generic OIDC authentication
type OIDCAuthenticator struct {
	config    *oauth2.Config
	verifier  *oidc.IDTokenVerifier
	db        *gorm.DB
	basicAuth *BasicAuthenticator
}

// OIDCConfig holds OIDC configuration
type OIDCConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// NewOIDCAuthenticator creates a new OIDC authenticator. Tokens are issued by
// basic so both login paths share one token format.
func NewOIDCAuthenticator(ctx context.Context, cfg OIDCConfig, db *gorm.DB, basic *BasicAuthenticator) (*OIDCAuthenticator, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCAuthenticator{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		verifier:  provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		db:        db,
		basicAuth: basic,
	}, nil
}

// GetAuthURL returns the URL to redirect users to for authentication
func (a *OIDCAuthenticator) GetAuthURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code and logs the user in.
func (a *OIDCAuthenticator) HandleCallback(ctx context.Context, code string) (*LoginResponse, error) {
	oauth2Token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token in token response")
	}

	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		Email             string `json:"email"`
		EmailVerified     bool   `json:"email_verified"`
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
		Sub               string `json:"sub"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}
	if claims.Email == "" {
		return nil, errors.New("identity provider did not return an email")
	}

	user, err := a.findOrCreateUser(claims.Email, firstNonEmpty(claims.Name, claims.PreferredUsername, claims.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to find or create user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	if err := a.basicAuth.stampLogin(user); err != nil {
		return nil, err
	}

	token, err := a.basicAuth.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT: %w", err)
	}

	audit.LogAction(a.db, user.ID, audit.ActionLogin, audit.Resource("user", user.ID), map[string]interface{}{
		"method": "oidc",
	})
	slog.Info("User logged in via OIDC", "user_id", user.ID, "role", user.Role)
	return &LoginResponse{
		Token: token,
		User:  user,
	}, nil
}

// findOrCreateUser matches on email. New accounts start as members.
func (a *OIDCAuthenticator) findOrCreateUser(email, name string) (*models.User, error) {
	email = strings.ToLower(email)

	var user models.User
	result := a.db.Where("email = ?", email).First(&user)
	if result.Error == nil {
		return &user, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	user = models.User{
		Name:     name,
		Email:    email,
		Role:     models.RoleMember,
		IsActive: true,
	}
	if err := a.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("Created new user from OIDC", "user_id", user.ID, "email", email)
	return &user, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
