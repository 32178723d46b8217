package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/authshop/auth-service/internal/domain"
	"github.com/authshop/auth-service/internal/email"
	"github.com/authshop/auth-service/internal/metrics"
	"github.com/authshop/auth-service/internal/password"
	"github.com/authshop/auth-service/internal/repository"
	"github.com/authshop/auth-service/internal/token"
)

type AuthUsecase struct {
	users         repository.UserRepository
	hasher        password.Hasher
	tokens        *token.Service
	email         email.Sender
	resetLinkBase string
	logger        *slog.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	hasher password.Hasher,
	tokens *token.Service,
	emailSender email.Sender,
	resetLinkBase string,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		email:         emailSender,
		resetLinkBase: resetLinkBase,
		logger:        logger.With("component", "auth_usecase"),
	}
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register hashes the password and creates the user. Email uniqueness is
// left to the store's constraint; a violation surfaces as
// domain.ErrEmailTaken.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	return user, nil
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
}

// Login verifies the credentials and issues a 24h session token.
// A missing user is reported as domain.ErrUserNotFound ("not registered"),
// a wrong password as domain.ErrInvalidCredentials.
func (u *AuthUsecase) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := u.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return "", err
	}

	if !u.hasher.Verify(input.Password, user.PasswordHash) {
		u.recordAttempt(ctx, input.Email, input.IPAddress, false)
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	signed, err := u.tokens.IssueSession(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}

	u.recordAttempt(ctx, input.Email, input.IPAddress, true)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return signed, nil
}

// ChangePassword overwrites the password hash of an already-authenticated
// user. Identity is whatever the session guard resolved; no re-check here.
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return domain.ErrPasswordMismatch
	}

	hash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	return u.users.UpdatePassword(ctx, userID, hash)
}

// RequestPasswordReset issues a reset token signed with the user's derived
// secret and hands the reset link to the email sender. In local environments
// the sender only logs the link.
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	signed, err := u.tokens.IssueReset(user.ID)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset/%s/%s", u.resetLinkBase, user.ID, signed)
	subject := "Reset your password"
	body := fmt.Sprintf(
		`<p>Click the link below to reset your password (expires in 1 hour):</p><p><a href="%s">%s</a></p>`,
		link, link,
	)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("send reset link: %w", err)
	}

	metrics.PasswordResetsTotal.WithLabelValues("requested").Inc()
	return nil
}

// CompletePasswordReset verifies the reset token against the secret derived
// from the addressed user and overwrites the password hash. An unknown user
// ID is reported the same way as a bad token so the endpoint does not reveal
// which IDs exist.
func (u *AuthUsecase) CompletePasswordReset(ctx context.Context, userID, tokenString, newPassword, confirmPassword string) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrTokenInvalid
		}
		return err
	}

	if _, err := u.tokens.VerifyReset(tokenString, user.ID); err != nil {
		return domain.ErrTokenInvalid
	}

	if newPassword != confirmPassword {
		return domain.ErrPasswordMismatch
	}

	hash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	if err := u.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("completed").Inc()
	return nil
}

// recordAttempt is best-effort; a store hiccup must not fail the login itself.
func (u *AuthUsecase) recordAttempt(ctx context.Context, email, ip string, successful bool) {
	if err := u.users.RecordLoginAttempt(ctx, email, ip, successful); err != nil {
		u.logger.WarnContext(ctx, "record login attempt", "email", email, "error", err)
	}
}
