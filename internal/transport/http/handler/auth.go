package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authshop/auth-service/internal/domain"
	"github.com/authshop/auth-service/internal/transport/http/middleware"
	"github.com/authshop/auth-service/internal/usecase"
)

// authService is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input usecase.LoginInput) (string, error)
	ChangePassword(ctx context.Context, userID, newPassword, confirmPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	CompletePasswordReset(ctx context.Context, userID, token, newPassword, confirmPassword string) error
}

type AuthHandler struct {
	auth   authService
	logger *slog.Logger
}

func NewAuthHandler(auth authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failed(c, http.StatusBadRequest, errAllFieldsRequired)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPasswordMismatch):
			failed(c, http.StatusBadRequest, errPasswordMismatch)
		case errors.Is(err, domain.ErrEmailTaken):
			failed(c, http.StatusBadRequest, errEmailTaken)
		default:
			h.logger.ErrorContext(c.Request.Context(), "register", "error", err)
			failed(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "User registered successfully",
		"user":    user.Public(),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failed(c, http.StatusBadRequest, errAllFieldsRequired)
		return
	}

	signed, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			failed(c, http.StatusBadRequest, errNotRegistered)
		case errors.Is(err, domain.ErrInvalidCredentials):
			failed(c, http.StatusBadRequest, errInvalidCredentials)
		default:
			h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
			failed(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "User logged in successfully",
		"token":   signed,
	})
}

type changePasswordRequest struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// POST /change-password — requires the session guard.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		failed(c, http.StatusUnauthorized, errUnauthorized)
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failed(c, http.StatusBadRequest, errAllFieldsRequired)
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), user.ID, req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPasswordMismatch):
			failed(c, http.StatusBadRequest, errPasswordMismatch)
		case errors.Is(err, domain.ErrUserNotFound):
			failed(c, http.StatusUnauthorized, errUnauthorized)
		default:
			h.logger.ErrorContext(c.Request.Context(), "change password", "error", err)
			failed(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Password changed successfully",
	})
}

type resetEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /send-reset-password-email
func (h *AuthHandler) SendResetPasswordEmail(c *gin.Context) {
	var req resetEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failed(c, http.StatusBadRequest, errEmailRequired)
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			failed(c, http.StatusNotFound, errEmailNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "request password reset", "error", err)
		failed(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Password reset link generated. Check your inbox.",
	})
}

type resetPasswordRequest struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// POST /password-reset/:id/:token — the token itself is the credential.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	userID := c.Param("id")
	rawToken := c.Param("token")

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failed(c, http.StatusBadRequest, errAllFieldsRequired)
		return
	}

	err := h.auth.CompletePasswordReset(c.Request.Context(), userID, rawToken, req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			failed(c, http.StatusUnauthorized, errTokenInvalid)
		case errors.Is(err, domain.ErrPasswordMismatch):
			failed(c, http.StatusBadRequest, errPasswordMismatch)
		default:
			h.logger.ErrorContext(c.Request.Context(), "reset password", "error", err)
			failed(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Password reset successfully",
	})
}

// GET /logged-user — requires the session guard; echoes the resolved identity.
func (h *AuthHandler) LoggedUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		failed(c, http.StatusUnauthorized, errUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   user,
	})
}

func failed(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "failed", "message": message})
}
