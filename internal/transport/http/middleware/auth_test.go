package middleware_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/authshop/auth-service/internal/domain"
	"github.com/authshop/auth-service/internal/token"
	"github.com/authshop/auth-service/internal/transport/http/middleware"
)

const testKey = "middleware-test-secret-32-chars!!"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUserRepo struct {
	findByID func(ctx context.Context, id string) (*domain.User, error)
}

func (r *fakeUserRepo) Create(_ context.Context, _ *domain.User) error { return nil }

func (r *fakeUserRepo) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, _, _ string) error { return nil }

func (r *fakeUserRepo) RecordLoginAttempt(_ context.Context, _, _ string, _ bool) error { return nil }

func (r *fakeUserRepo) PurgeLoginAttempts(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

// newEngine builds a minimal gin engine with the session guard protecting
// GET /protected. The handler echoes the resolved identity so tests can
// assert it was attached.
func newEngine(repo *fakeUserRepo) (*gin.Engine, *token.Service) {
	tokens := token.NewService([]byte(testKey))
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	r := gin.New()
	r.GET("/protected", middleware.Auth(tokens, repo, logger), func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, user)
	})
	return r, tokens
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

var guardUser = &domain.User{ID: "user-1", Name: "Ann", Email: "ann@x.com", PasswordHash: "hash"}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	r, _ := newEngine(&fakeUserRepo{})

	if w := get(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_NotBearer_Returns401(t *testing.T) {
	r, _ := newEngine(&fakeUserRepo{})

	if w := get(r, "Basic dXNlcjpwYXNz"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_InvalidToken_Returns401(t *testing.T) {
	r, _ := newEngine(&fakeUserRepo{})

	if w := get(r, "Bearer not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_TokenSignedWithOtherKey_Returns401(t *testing.T) {
	r, _ := newEngine(&fakeUserRepo{})

	other := token.NewService([]byte("some-other-secret-32-characters!!"))
	signed, err := other.IssueSession(guardUser.ID)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	if w := get(r, "Bearer "+signed); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_UserGone_Returns401(t *testing.T) {
	repo := &fakeUserRepo{
		findByID: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	r, tokens := newEngine(repo)

	signed, err := tokens.IssueSession(guardUser.ID)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	if w := get(r, "Bearer "+signed); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_StoreError_Returns500(t *testing.T) {
	repo := &fakeUserRepo{
		findByID: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, errors.New("db down")
		},
	}
	r, tokens := newEngine(repo)

	signed, err := tokens.IssueSession(guardUser.ID)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	if w := get(r, "Bearer "+signed); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestAuth_ValidToken_AttachesIdentityWithoutHash(t *testing.T) {
	repo := &fakeUserRepo{
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			if id != guardUser.ID {
				return nil, domain.ErrUserNotFound
			}
			return guardUser, nil
		},
	}
	r, tokens := newEngine(repo)

	signed, err := tokens.IssueSession(guardUser.ID)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	w := get(r, "Bearer "+signed)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	if !strings.Contains(body, `"email":"ann@x.com"`) {
		t.Errorf("resolved identity missing from body %q", body)
	}
	if strings.Contains(body, "hash") {
		t.Errorf("password hash leaked into the request identity: %q", body)
	}
}
