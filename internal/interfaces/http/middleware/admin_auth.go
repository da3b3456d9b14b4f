package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"notify-gate.backend/pkg/jwt"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// AdminSubjectKey is the context key for the service token subject
	AdminSubjectKey = "adminSubject"
	// AdminRoleKey is the context key for the service token role
	AdminRoleKey = "adminRole"
)

// AdminAuth guards the management API with service tokens
func AdminAuth(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "ERR_UNAUTHORIZED",
				"message": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "ERR_UNAUTHORIZED",
				"message": "Invalid authorization format. Use: Bearer <token>",
			})
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			message := "Invalid token"
			if err == jwt.ErrExpiredToken {
				message = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "ERR_UNAUTHORIZED",
				"message": message,
			})
			return
		}

		c.Set(AdminSubjectKey, claims.Subject)
		c.Set(AdminRoleKey, claims.Role)

		c.Next()
	}
}
