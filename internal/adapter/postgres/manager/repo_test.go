package manager_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/minicrm/backend/internal/adapter/postgres/manager"
	"github.com/minicrm/backend/internal/adapter/postgres/testhelper"
	"github.com/minicrm/backend/internal/domain"
)

func TestRepository_Create(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := manager.NewRepository(pool)
	ctx := context.Background()

	email := "boss-" + uuid.NewString()[:8] + "@example.com"
	created, err := repo.Create(ctx, &domain.Manager{
		Email:        email,
		PasswordHash: "$2a$10$hashhashhashhashhashha",
		Role:         domain.ManagerRoleAdmin,
		Active:       true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Email != email {
		t.Errorf("Email = %q, want %q", created.Email, email)
	}
	if created.Role != domain.ManagerRoleAdmin {
		t.Errorf("Role = %q, want admin", created.Role)
	}
	if created.LastLoginAt != nil {
		t.Errorf("LastLoginAt = %v, want nil", created.LastLoginAt)
	}

	// Duplicate email is rejected.
	_, err = repo.Create(ctx, &domain.Manager{
		Email:        email,
		PasswordHash: "$2a$10$otherhashotherhashothe",
		Role:         domain.ManagerRoleManager,
		Active:       true,
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("duplicate Create() error = %v, want ErrAlreadyExists", err)
	}
}

func TestRepository_GetByEmail(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := manager.NewRepository(pool)
	ctx := context.Background()

	seeded := testhelper.SeedManager(t, pool, domain.ManagerRoleManager)

	got, err := repo.GetByEmail(ctx, seeded.Email)
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != seeded.ID {
		t.Errorf("ID = %s, want %s", got.ID, seeded.ID)
	}

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown email error = %v, want ErrNotFound", err)
	}
}

func TestRepository_Count(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := manager.NewRepository(pool)
	ctx := context.Background()

	before, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}

	testhelper.SeedManager(t, pool, domain.ManagerRoleManager)

	after, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if after != before+1 {
		t.Errorf("Count() = %d, want %d", after, before+1)
	}
}

func TestRepository_TouchLastLogin(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := manager.NewRepository(pool)
	ctx := context.Background()

	seeded := testhelper.SeedManager(t, pool, domain.ManagerRoleManager)
	at := time.Now().UTC().Truncate(time.Microsecond)

	if err := repo.TouchLastLogin(ctx, seeded.ID, at); err != nil {
		t.Fatalf("TouchLastLogin() error = %v", err)
	}

	got, err := repo.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.LastLoginAt == nil || !got.LastLoginAt.Equal(at) {
		t.Errorf("LastLoginAt = %v, want %v", got.LastLoginAt, at)
	}

	err = repo.TouchLastLogin(ctx, uuid.New(), at)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}
}
