package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/learning-management-system/internal/transport/http/handler"
	"github.com/ErlanBelekov/learning-management-system/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	candidateHandler *handler.CandidateHandler,
	tokens middleware.TokenValidator,
	users middleware.UserFinder,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Public auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/token", authHandler.IssueToken)
	authGroup.POST("/password/forgot", authHandler.RequestPasswordReset)
	authGroup.POST("/password/reset", authHandler.ResetPassword)

	authMW := middleware.Auth(tokens)
	currentUser := middleware.CurrentUser(users, logger)

	r.GET("/me", authMW, currentUser, authHandler.Me)

	// Protected candidate routes
	candidates := r.Group("/candidates", authMW, currentUser)
	candidates.GET("", candidateHandler.List)
	candidates.POST("", candidateHandler.Save)
	candidates.POST("/import", candidateHandler.Import)
	candidates.GET("/:firstName", candidateHandler.GetByFirstName)

	return r
}
