package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orgdesa/orgdesa/internal/auth"
	"github.com/orgdesa/orgdesa/internal/policy"
	"github.com/orgdesa/orgdesa/internal/rbac"
)

// RequirePermission rejects the request before the handler runs unless the
// viewer's role grants act on res. Anonymous requests get 401.
func RequirePermission(p *policy.Policy, res rbac.Resource, act rbac.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.UserFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := p.Authorize(user, res, act); err != nil {
			if errors.Is(err, policy.ErrForbidden) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
				return
			}
			slog.Error("Authorization check failed", "error", err, "resource", res, "action", act)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Next()
	}
}

// RequireAdmin ensures the user is an admin.
func RequireAdmin(p *policy.Policy) gin.HandlerFunc {
	return RequirePermission(p, rbac.ResourceUser, rbac.ActionManage)
}
