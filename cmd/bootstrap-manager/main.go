// Command bootstrap-manager creates the first admin account. It refuses to
// run once any manager exists.
//
// Usage:
//
//	bootstrap-manager -email admin@example.com -password <password>
//
// Requires DATABASE_DSN and AUTH_JWT_SECRET environment variables to be set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minicrm/backend/internal/adapter/postgres"
	managerrepo "github.com/minicrm/backend/internal/adapter/postgres/manager"
	"github.com/minicrm/backend/internal/auth"
	"github.com/minicrm/backend/internal/config"
	"github.com/minicrm/backend/internal/service/managerauth"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		log.Fatal("AUTH_JWT_SECRET environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.AuthConfig{
		JWTSecret:  secret,
		JWTIssuer:  "minicrm",
		SessionTTL: 2 * time.Hour,
		BcryptCost: 10,
	}

	svc := managerauth.NewService(
		logger,
		managerrepo.NewRepository(pool),
		postgres.NewTxManager(pool),
		auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL),
		cfg,
	)

	result, err := svc.Bootstrap(ctx, managerauth.BootstrapInput{
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	fmt.Printf("Created admin %s (%s).\n", result.Manager.Email, result.Manager.ID)
}
