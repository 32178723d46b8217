package janitor_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/authshop/auth-service/internal/domain"
	"github.com/authshop/auth-service/internal/janitor"
)

type fakeUserRepo struct {
	purge func(ctx context.Context, before time.Time) (int64, error)
}

func (r *fakeUserRepo) Create(_ context.Context, _ *domain.User) error { return nil }

func (r *fakeUserRepo) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, _, _ string) error { return nil }

func (r *fakeUserRepo) RecordLoginAttempt(_ context.Context, _, _ string, _ bool) error { return nil }

func (r *fakeUserRepo) PurgeLoginAttempts(ctx context.Context, before time.Time) (int64, error) {
	return r.purge(ctx, before)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestPurge_UsesRetentionCutoff(t *testing.T) {
	var captured time.Time
	repo := &fakeUserRepo{
		purge: func(_ context.Context, before time.Time) (int64, error) {
			captured = before
			return 3, nil
		},
	}

	retention := 48 * time.Hour
	j := janitor.New(repo, testLogger(), retention, "@hourly")

	before := time.Now().Add(-retention)
	j.Purge(context.Background())
	after := time.Now().Add(-retention)

	if captured.Before(before) || captured.After(after) {
		t.Errorf("cutoff %v outside expected window [%v, %v]", captured, before, after)
	}
}

func TestPurge_ErrorIsSwallowed(t *testing.T) {
	repo := &fakeUserRepo{
		purge: func(_ context.Context, _ time.Time) (int64, error) {
			return 0, errors.New("db down")
		},
	}

	j := janitor.New(repo, testLogger(), time.Hour, "@hourly")
	j.Purge(context.Background()) // must not panic
}

func TestStart_InvalidSchedule(t *testing.T) {
	j := janitor.New(&fakeUserRepo{}, testLogger(), time.Hour, "not a cron expr")

	if err := j.Start(); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestStartStop(t *testing.T) {
	repo := &fakeUserRepo{
		purge: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
	j := janitor.New(repo, testLogger(), time.Hour, "@hourly")

	if err := j.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	j.Stop()
}
