package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/authshop/auth-service/internal/repository"
	"github.com/authshop/auth-service/internal/token"
	"github.com/authshop/auth-service/internal/transport/http/handler"
	"github.com/authshop/auth-service/internal/transport/http/middleware"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	tokens *token.Service,
	users repository.UserRepository,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Public routes
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/send-reset-password-email", authHandler.SendResetPasswordEmail)
	r.POST("/password-reset/:id/:token", authHandler.ResetPassword)

	// Protected routes
	guard := middleware.Auth(tokens, users, logger)
	r.POST("/change-password", guard, authHandler.ChangePassword)
	r.GET("/logged-user", guard, authHandler.LoggedUser)

	return r
}
