package managerauth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/minicrm/backend/internal/config"
	"github.com/minicrm/backend/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// defaultCfg returns a config suitable for most tests.
func defaultCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:  "test-secret-test-secret-test-okk",
		JWTIssuer:  "minicrm",
		SessionTTL: 2 * time.Hour,
		BcryptCost: bcrypt.MinCost, // minimum cost for fast tests
	}
}

// hashPassword returns a bcrypt hash for testing.
func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	return string(hash)
}

func staticJWT(token string) *jwtManagerMock {
	return &jwtManagerMock{
		GenerateTokenFunc: func(uuid.UUID, string) (string, error) { return token, nil },
	}
}

func TestService_Bootstrap(t *testing.T) {
	t.Parallel()

	adminID := uuid.New()

	managers := &managerRepoMock{
		CountFunc: func(ctx context.Context) (int, error) { return 0, nil },
		CreateFunc: func(ctx context.Context, m *domain.Manager) (*domain.Manager, error) {
			created := *m
			created.ID = adminID
			created.CreatedAt = time.Now()
			return &created, nil
		},
	}

	svc := NewService(testLogger(), managers, passthroughTx(), staticJWT("token_123"), defaultCfg())

	result, err := svc.Bootstrap(context.Background(), BootstrapInput{
		Email:    "Admin@Example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if result.Token != "token_123" {
		t.Errorf("Token = %q, want token_123", result.Token)
	}
	if result.Manager.Role != domain.ManagerRoleAdmin {
		t.Errorf("Role = %q, want admin", result.Manager.Role)
	}

	calls := managers.CreateCalls()
	if len(calls) != 1 {
		t.Fatalf("Create called %d times, want 1", len(calls))
	}
	if calls[0].Email != "admin@example.com" {
		t.Errorf("stored email = %q, want lowercased", calls[0].Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(calls[0].PasswordHash), []byte("correct horse")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestService_Bootstrap_AlreadyInitialized(t *testing.T) {
	t.Parallel()

	managers := &managerRepoMock{
		CountFunc: func(ctx context.Context) (int, error) { return 1, nil },
	}

	svc := NewService(testLogger(), managers, passthroughTx(), staticJWT(""), defaultCfg())

	_, err := svc.Bootstrap(context.Background(), BootstrapInput{
		Email:    "admin@example.com",
		Password: "correct horse",
	})
	if !errors.Is(err, domain.ErrAlreadyInitialized) {
		t.Errorf("error = %v, want ErrAlreadyInitialized", err)
	}
	if len(managers.CreateCalls()) != 0 {
		t.Error("Create must not be called when accounts exist")
	}
}

func TestService_Bootstrap_ConcurrentLoser(t *testing.T) {
	t.Parallel()

	// The count says zero but the insert hits the unique constraint:
	// another bootstrap committed in between.
	managers := &managerRepoMock{
		CountFunc: func(ctx context.Context) (int, error) { return 0, nil },
		CreateFunc: func(ctx context.Context, m *domain.Manager) (*domain.Manager, error) {
			return nil, domain.ErrAlreadyExists
		},
	}

	svc := NewService(testLogger(), managers, passthroughTx(), staticJWT(""), defaultCfg())

	_, err := svc.Bootstrap(context.Background(), BootstrapInput{
		Email:    "admin@example.com",
		Password: "correct horse",
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("error = %v, want ErrAlreadyExists", err)
	}
}

func TestService_Bootstrap_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &managerRepoMock{}, passthroughTx(), staticJWT(""), defaultCfg())

	cases := []struct {
		name  string
		input BootstrapInput
	}{
		{"empty email", BootstrapInput{Password: "correct horse"}},
		{"invalid email", BootstrapInput{Email: "not-an-email", Password: "correct horse"}},
		{"short password", BootstrapInput{Email: "a@b.c", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Bootstrap(context.Background(), tc.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	mgrID := uuid.New()
	hash := hashPassword(t, "correct horse")

	var touched bool
	managers := &managerRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.Manager, error) {
			if email != "boss@example.com" {
				t.Errorf("GetByEmail(%q), want lowercased boss@example.com", email)
			}
			return &domain.Manager{
				ID:           mgrID,
				Email:        email,
				PasswordHash: hash,
				Role:         domain.ManagerRoleManager,
				Active:       true,
			}, nil
		},
		TouchLastLoginFunc: func(ctx context.Context, id uuid.UUID, at time.Time) error {
			touched = true
			return nil
		},
	}

	jwt := &jwtManagerMock{
		GenerateTokenFunc: func(id uuid.UUID, role string) (string, error) {
			if id != mgrID || role != "manager" {
				t.Errorf("GenerateToken(%s, %s), want (%s, manager)", id, role, mgrID)
			}
			return "session_token", nil
		},
	}

	svc := NewService(testLogger(), managers, passthroughTx(), jwt, defaultCfg())

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    " Boss@Example.com ",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token != "session_token" {
		t.Errorf("Token = %q, want session_token", result.Token)
	}
	if !touched {
		t.Error("TouchLastLogin was not called")
	}
}

func TestService_Login_Unauthorized(t *testing.T) {
	t.Parallel()

	hash := hashPassword(t, "correct horse")

	cases := []struct {
		name string
		repo *managerRepoMock
		pass string
	}{
		{
			name: "unknown email",
			repo: &managerRepoMock{
				GetByEmailFunc: func(ctx context.Context, email string) (*domain.Manager, error) {
					return nil, domain.ErrNotFound
				},
			},
			pass: "correct horse",
		},
		{
			name: "wrong password",
			repo: &managerRepoMock{
				GetByEmailFunc: func(ctx context.Context, email string) (*domain.Manager, error) {
					return &domain.Manager{ID: uuid.New(), PasswordHash: hash, Active: true}, nil
				},
			},
			pass: "wrong",
		},
		{
			name: "inactive account",
			repo: &managerRepoMock{
				GetByEmailFunc: func(ctx context.Context, email string) (*domain.Manager, error) {
					return &domain.Manager{ID: uuid.New(), PasswordHash: hash, Active: false}, nil
				},
			},
			pass: "correct horse",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(testLogger(), tc.repo, passthroughTx(), staticJWT(""), defaultCfg())
			_, err := svc.Login(context.Background(), LoginInput{
				Email:    "boss@example.com",
				Password: tc.pass,
			})
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("error = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	t.Parallel()

	mgrID := uuid.New()

	managers := &managerRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Manager, error) {
			return &domain.Manager{ID: id, Role: domain.ManagerRoleAdmin, Active: true}, nil
		},
	}
	jwt := &jwtManagerMock{
		ValidateTokenFunc: func(token string) (uuid.UUID, string, error) {
			if token != "good" {
				return uuid.Nil, "", errors.New("bad token")
			}
			// Claim says manager, stored role says admin: stored wins.
			return mgrID, "manager", nil
		},
	}

	svc := NewService(testLogger(), managers, passthroughTx(), jwt, defaultCfg())

	p, err := svc.Authenticate(context.Background(), "good")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if p.Kind != domain.PrincipalManager || p.ID != mgrID {
		t.Errorf("principal = %+v, want manager %s", p, mgrID)
	}
	if p.Role != domain.ManagerRoleAdmin {
		t.Errorf("Role = %q, want stored role admin", p.Role)
	}

	_, err = svc.Authenticate(context.Background(), "bad")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("invalid token error = %v, want ErrUnauthorized", err)
	}
}

func TestService_Authenticate_InactiveAccount(t *testing.T) {
	t.Parallel()

	managers := &managerRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Manager, error) {
			return &domain.Manager{ID: id, Role: domain.ManagerRoleManager, Active: false}, nil
		},
	}
	jwt := &jwtManagerMock{
		ValidateTokenFunc: func(token string) (uuid.UUID, string, error) {
			return uuid.New(), "manager", nil
		},
	}

	svc := NewService(testLogger(), managers, passthroughTx(), jwt, defaultCfg())

	_, err := svc.Authenticate(context.Background(), "token")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}
