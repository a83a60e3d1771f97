package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole is a middleware that checks if the user has the required role.
// It runs after BearerAuth.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authorizeRole(c, requiredRole) {
			return
		}
		c.Next()
	}
}

func authorizeRole(c *gin.Context, requiredRole string) bool {
	if _, exists := c.Get(ContextUserID); !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
		return false
	}

	userRole := c.GetString(ContextUserRole)
	if userRole == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "User role not found in token"))
		return false
	}

	if userRole != requiredRole {
		c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Insufficient permissions",
			map[string]interface{}{
				"required_role": requiredRole,
				"user_role":     userRole,
			}))
		return false
	}
	return true
}
