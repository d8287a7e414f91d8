package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minicrm/backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedClient creates a client row with a random telegram id and no consent.
func SeedClient(t *testing.T, pool *pgxpool.Pool) domain.Client {
	t.Helper()
	ctx := context.Background()

	username := "client-" + uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	client := domain.Client{
		ID:         uuid.New(),
		TelegramID: time.Now().UnixNano(),
		Username:   &username,
		CreatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO clients (id, telegram_id, username, created_at)
		 VALUES ($1, $2, $3, $4)`,
		client.ID, client.TelegramID, client.Username, client.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedClient insert: %v", err)
	}

	return client
}

// SeedDirection creates an active direction with a unique name.
func SeedDirection(t *testing.T, pool *pgxpool.Pool) domain.Direction {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	direction := domain.Direction{
		ID:        uuid.New(),
		Name:      "direction-" + uniqueSuffix(),
		Active:    true,
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO directions (id, name, active, created_at)
		 VALUES ($1, $2, $3, $4)`,
		direction.ID, direction.Name, direction.Active, direction.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDirection insert: %v", err)
	}

	return direction
}

// SeedSlot creates an active delivery slot bound to the given direction.
func SeedSlot(t *testing.T, pool *pgxpool.Pool, directionID uuid.UUID) domain.DeliverySlot {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	slot := domain.DeliverySlot{
		ID:          uuid.New(),
		DirectionID: &directionID,
		Date:        now.AddDate(0, 0, 7).Truncate(24 * time.Hour),
		Active:      true,
		CreatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO delivery_slots (id, direction_id, date, active, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		slot.ID, slot.DirectionID, slot.Date, slot.Active, slot.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSlot insert: %v", err)
	}

	return slot
}

// SeedManager creates an active manager account with the given role.
func SeedManager(t *testing.T, pool *pgxpool.Pool, role domain.ManagerRole) domain.Manager {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	manager := domain.Manager{
		ID:           uuid.New(),
		Email:        "manager-" + uniqueSuffix() + "@example.com",
		PasswordHash: "$2a$10$not.a.real.hash.but.fine.for.reads",
		Role:         role,
		Active:       true,
		CreatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO manager_users (id, email, password_hash, role, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		manager.ID, manager.Email, manager.PasswordHash, manager.Role.String(), manager.Active, manager.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedManager insert: %v", err)
	}

	return manager
}
