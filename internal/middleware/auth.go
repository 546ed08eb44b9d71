package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/waveshare/waveshare-api/internal/constants"
	apierrors "github.com/waveshare/waveshare-api/internal/errors"
)

// RequireAuth checks if an admin is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		orgID := session.Get(constants.ContextKeyOrgID)

		if orgID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store org ID in context for easy access in handlers
		c.Set(constants.ContextKeyOrgID, orgID)
		c.Next()
	}
}

// GetOrgID retrieves the current organization ID from context
func GetOrgID(c *gin.Context) (string, bool) {
	orgID, exists := c.Get(constants.ContextKeyOrgID)
	if !exists {
		return "", false
	}

	id, ok := orgID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
