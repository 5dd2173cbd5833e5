package handler

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer     = "Internal server error"
	errUserNotFound       = "User not found"
	errInvalidPassword    = "Invalid password"
	errInvalidCredentials = "Invalid username or password"
	errDuplicateIdentity  = "Login name or email is already registered"
	errTokenExpired       = "Token has expired"
	errTokenInvalid       = "Token is invalid"
	errNotification       = "Could not send email, try again later"
	errCandidateNotFound  = "Candidate not found"
	errMissingFile        = "Multipart field \"file\" is required"
	errPasswordTooLong    = "Password must be at most 72 bytes"
)

// respondError maps a domain error onto its HTTP status. Anything that is
// not a domain error is logged and reported as a 500.
func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	switch domain.KindOf(err) {
	case domain.KindUserNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
	case domain.KindInvalidPassword:
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidPassword})
	case domain.KindInvalidCredentials, domain.KindAccountDisabled:
		// One body for both kinds; disabled accounts are not disclosed.
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
	case domain.KindDuplicateIdentity:
		c.JSON(http.StatusConflict, gin.H{"error": errDuplicateIdentity})
	case domain.KindTokenExpired:
		c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenExpired})
	case domain.KindInvalidToken:
		c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
	case domain.KindNotificationFailure:
		logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errNotification})
	case domain.KindCandidateNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": errCandidateNotFound})
	case domain.KindInvalidCandidateFile, domain.KindInvalidCandidate:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.KindPasswordTooLong:
		c.JSON(http.StatusBadRequest, gin.H{"error": errPasswordTooLong})
	default:
		logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
