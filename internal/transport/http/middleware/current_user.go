package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	ctxlog "github.com/ErlanBelekov/learning-management-system/internal/log"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

type UserFinder interface {
	FindByLoginName(ctx context.Context, loginName string) (*domain.User, error)
}

// CurrentUser runs after Auth. It loads the user named by the token so that
// a token outliving its account is rejected.
func CurrentUser(users UserFinder, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		loginName := c.GetString(LoginNameKey)
		user, err := users.FindByLoginName(c.Request.Context(), loginName)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
				return
			}
			logger.ErrorContext(c.Request.Context(), "load current user", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error"})
			return
		}
		c.Set(currentUserKey, user)
		c.Request = c.Request.WithContext(ctxlog.With(c.Request.Context(),
			slog.Int64("user_id", user.ID), slog.String("login_name", user.LoginName)))
		c.Next()
	}
}

// CurrentUserFrom returns the user stored by CurrentUser.
func CurrentUserFrom(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}
