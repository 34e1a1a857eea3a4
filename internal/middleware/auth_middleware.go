package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/services"
	"erp_backoffice/pkg/utils"
)

// Context keys set by the middleware chain.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextSession  = "session"
)

// ErrNoUserInContext is returned when a handler runs without AuthMiddleware.
var ErrNoUserInContext = errors.New("no authenticated user in request context")

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", ""))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)

		c.Next()
	}
}

// SessionMiddleware resolves the authenticated user's capability set and
// stores it in the context. Runs after AuthMiddleware. Resolution is per
// request, so role and permission edits apply without re-login.
func SessionMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := UserIDFromContext(c)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required", ""))
			return
		}

		session, err := authService.ResolveSession(userID)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Failed to resolve session", ""))
			return
		}

		c.Set(ContextSession, session)
		c.Next()
	}
}

// RequirePermission blocks the request unless the resolved session grants
// the permission code.
func RequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Session not resolved. Ensure SessionMiddleware runs first.", ""))
			return
		}

		if !session.HasPermission(code) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Missing permission: "+code, ""))
			return
		}

		c.Next()
	}
}

// UserIDFromContext extracts the authenticated user ID set by AuthMiddleware.
func UserIDFromContext(c *gin.Context) (int64, error) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0, ErrNoUserInContext
	}
	userID, ok := value.(int64)
	if !ok {
		return 0, ErrNoUserInContext
	}
	return userID, nil
}

// SessionFromContext extracts the resolved session set by SessionMiddleware.
func SessionFromContext(c *gin.Context) (*models.SessionState, bool) {
	value, exists := c.Get(ContextSession)
	if !exists {
		return nil, false
	}
	session, ok := value.(*models.SessionState)
	return session, ok
}
