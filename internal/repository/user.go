package repository

import (
	"context"
	"time"

	"github.com/authshop/auth-service/internal/domain"
)

type UserRepository interface {
	// Create inserts the user. Returns domain.ErrEmailTaken if the email
	// unique constraint is violated.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	RecordLoginAttempt(ctx context.Context, email, ip string, successful bool) error
	PurgeLoginAttempts(ctx context.Context, before time.Time) (int64, error)
}
