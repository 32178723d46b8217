package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/authshop/auth-service/internal/domain"
	"github.com/authshop/auth-service/internal/repository"
	"github.com/authshop/auth-service/internal/token"
)

const (
	errUnauthorized   = "Unauthorized"
	errInternalServer = "Internal server error"

	userKey   = "user"
	userIDKey = "userID"
)

// Auth is the session guard: it validates the Bearer session token, resolves
// it to a live user, and attaches the identity (minus the password hash) to
// the request context. It runs on every protected call; there is no
// long-lived session object.
func Auth(tokens *token.Service, users repository.UserRepository, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "failed", "message": errUnauthorized})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		userID, err := tokens.VerifySession(rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "failed", "message": errUnauthorized})
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "failed", "message": errUnauthorized})
				return
			}
			logger.ErrorContext(c.Request.Context(), "session guard user lookup", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "failed", "message": errInternalServer})
			return
		}

		c.Set(userKey, user.Public())
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// CurrentUser returns the identity the guard resolved for this request.
func CurrentUser(c *gin.Context) (domain.PublicUser, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return domain.PublicUser{}, false
	}
	user, ok := v.(domain.PublicUser)
	return user, ok
}
