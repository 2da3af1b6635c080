package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orgdesa/orgdesa/internal/auth"
	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/policy"
)

// CurrentUserResponse is the signed-in user with the capabilities the UI
// uses to show or hide actions.
type CurrentUserResponse struct {
	User             *models.User `json:"user"`
	IsAdmin          bool         `json:"is_admin"`
	CanCreateContent bool         `json:"can_create_content"`
	CanEditContent   bool         `json:"can_edit_content"`
	Permissions      []string     `json:"permissions"`
}

// Login godoc
// @Summary User login
// @Description Authenticate with email and password and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body auth.LoginRequest true "Login credentials"
// @Success 200 {object} auth.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /auth/login [post]
func Login(authenticator auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req auth.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}

		resp, err := authenticator.Login(req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidCredentials):
				c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			case errors.Is(err, auth.ErrInactiveUser):
				c.JSON(http.StatusForbidden, ErrorResponse{Error: "account is inactive"})
			default:
				c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			}
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// CurrentUser godoc
// @Summary The authenticated user and their capabilities
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} CurrentUserResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func CurrentUser(p *policy.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := getViewer(c)
		if user.IsAnonymous() {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}
		grants, err := p.Grants(user)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, CurrentUserResponse{
			User:             user,
			IsAdmin:          user.IsAdmin(),
			CanCreateContent: user.CanCreateContent(),
			CanEditContent:   user.CanEditContent(),
			Permissions:      grants,
		})
	}
}
