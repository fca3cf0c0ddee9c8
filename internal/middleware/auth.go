package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vitaltrack/backend/internal/models"
	"github.com/vitaltrack/backend/internal/service"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxUser     = "current_user"
)

// TokenValidator validates a bearer token and resolves it to a live user.
type TokenValidator interface {
	ValidateToken(token string) (*service.TokenClaims, error)
	ResolveUser(claims *service.TokenClaims) (*models.User, error)
}

// Auth validates the Authorization header, resolves the user row and stores
// both on the context. A token whose subject no longer exists, or whose
// account has been disabled since issuance, is rejected.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		user, err := validator.ResolveUser(claims)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user account is disabled"})
			c.Abort()
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxUsername, user.Username)
		c.Set(CtxRole, user.Role)
		c.Set(CtxUser, user)
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose role does not match.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, exists := c.Get(CtxRole)
		if !exists || got != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser pulls the resolved user set by Auth. The bool is false only if
// the middleware did not run, which is a wiring bug, not a runtime condition.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(CtxUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
