package middleware

import (
	"net/http"
	"strings"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized = "Unauthorized"

	// LoginNameKey holds the token subject set by Auth.
	LoginNameKey = "loginName"
)

type TokenValidator interface {
	Validate(raw string, purpose domain.TokenPurpose) (string, error)
}

// Auth validates a Bearer session JWT and sets LoginNameKey in the gin
// context. Password-reset tokens are rejected.
func Auth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		loginName, err := tokens.Validate(rawToken, domain.PurposeSession)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(LoginNameKey, loginName)
		c.Next()
	}
}
