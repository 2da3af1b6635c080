package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orgdesa/orgdesa/internal/auth"
)

// OIDCLogin godoc
// @Summary Initiate OIDC login
// @Description Redirects user to OIDC provider for authentication
// @Tags auth
// @Produce json
// @Success 307 {string} string "Redirect to OIDC provider"
// @Router /auth/oidc/login [get]
func OIDCLogin(oidcAuth *auth.OIDCAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := generateRandomState()
		if err != nil {
			slog.Error("Failed to generate state", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}

		c.SetCookie("oidc_state", state, 600, "/", "", false, true)
		c.Redirect(http.StatusTemporaryRedirect, oidcAuth.GetAuthURL(state))
	}
}

// OIDCCallback godoc
// @Summary Handle OIDC callback
// @Description Process OIDC callback and authenticate user
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State parameter"
// @Success 200 {object} auth.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/oidc/callback [get]
func OIDCCallback(oidcAuth *auth.OIDCAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := c.Query("state")
		storedState, err := c.Cookie("oidc_state")
		if err != nil || state == "" || state != storedState {
			slog.Warn("Invalid OIDC state", "state", state)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid state parameter"})
			return
		}
		c.SetCookie("oidc_state", "", -1, "/", "", false, true)

		code := c.Query("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing authorization code"})
			return
		}

		resp, err := oidcAuth.HandleCallback(c.Request.Context(), code)
		if err != nil {
			slog.Error("OIDC callback failed", "error", err)
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication failed"})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
