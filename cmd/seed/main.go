// seed registers a test user in the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	"github.com/ErlanBelekov/learning-management-system/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/learning-management-system/internal/password"
	"github.com/ErlanBelekov/learning-management-system/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedLogin    = "seed"
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}

	if err := postgres.Migrate(ctx, dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL, postgres.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hasher, err := password.NewHasher(password.AlgorithmBcrypt, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hasher: %v", err)
	}

	authUsecase := usecase.NewAuthUsecase(usecase.AuthDeps{
		Users:  postgres.NewUserRepository(pool),
		Hasher: hasher,
		Logger: slog.New(slog.DiscardHandler),
	})

	user, err := authUsecase.Register(ctx, usecase.RegisterInput{
		LoginName: seedLogin,
		FirstName: "Seed",
		LastName:  "User",
		Email:     seedEmail,
		Password:  seedPassword,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateIdentity):
		fmt.Println("Seed user already exists")
	case err != nil:
		log.Fatalf("register seed user: %v", err)
	default:
		fmt.Println("Seed complete")
		fmt.Printf("  User ID:  %d\n", user.ID)
	}

	fmt.Println()
	fmt.Printf("  Login:    %s\n", seedLogin)
	fmt.Printf("  Email:    %s\n", seedEmail)
	fmt.Printf("  Password: %s\n", seedPassword)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: get a session token:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/token \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"username\":\"%s\",\"password\":\"%s\"}'\n", seedLogin, seedPassword)
	fmt.Println("    # → {\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/me -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Step 2: request a password reset (EMAIL_PROVIDER=log prints the email):")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/password/forgot \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\"}'\n", seedEmail)
	fmt.Println("    # → {\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 3: set a new password within 15 minutes:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/password/reset \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Println("      -d '{\"token\":\"RESET_TOKEN\",\"password\":\"new-password\"}'")
	fmt.Println()
	fmt.Println("  What to expect:")
	fmt.Println("    the old password now fails on /auth/login with 401")
	fmt.Println("    the same reset token keeps working until it expires")
}
