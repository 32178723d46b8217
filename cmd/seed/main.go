// seed inserts a demo user into the local dev database so login can be
// exercised without registering first.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/authshop/auth-service/internal/domain"
	"github.com/authshop/auth-service/internal/infrastructure/postgres"
	"github.com/authshop/auth-service/internal/password"
)

const (
	seedName     = "Seed User"
	seedEmail    = "seed@test.local"
	seedPassword = "Password123"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hasher := password.NewBcryptHasher(0)
	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	repo := postgres.NewUserRepository(pool)
	user := &domain.User{
		Name:         seedName,
		Email:        seedEmail,
		PasswordHash: hash,
	}

	err = repo.Create(ctx, user)
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		fmt.Printf("seed user %s already exists\n", seedEmail)
	case err != nil:
		log.Fatalf("create seed user: %v", err)
	default:
		fmt.Printf("created seed user %s (id=%s, password=%q)\n", seedEmail, user.ID, seedPassword)
	}
}
