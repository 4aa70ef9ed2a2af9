package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"auctioncore/internal/clients/userclient"
)

const (
	// Trusted headers set by the gateway after JWT validation.
	HeaderRole = "X-User-Role"
	HeaderUser = "X-User-Id"

	ctxRoleKey = "auth_role"
	ctxUserKey = "auth_user"
)

// Middleware gates requests on the capability table. The role comes from the
// gateway's pre-validated claim header; when only a user id is present the
// role is resolved through the identity collaborator.
func Middleware(users userclient.IUserClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c.GetHeader(HeaderRole))
		userID := c.GetHeader(HeaderUser)

		if role == "" && userID != "" {
			u, err := users.GetUser(c.Request.Context(), userID)
			if err != nil {
				zap.L().Warn("auth.resolve_role", zap.String("user", userID), zap.Error(err))
				if errors.Is(err, userclient.ErrUnavailable) {
					c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "identity service unavailable"})
					return
				}
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "cannot resolve caller role"})
				return
			}
			role = Role(u.Role)
		}
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing role claim"})
			return
		}

		if !Allowed(role, c.Request.URL.Path, c.Request.Method) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})
			return
		}

		c.Set(ctxRoleKey, role)
		c.Set(ctxUserKey, userID)
		c.Next()
	}
}

// CallerID returns the authenticated user id, if the gateway supplied one.
func CallerID(c *gin.Context) string {
	return c.GetString(ctxUserKey)
}
