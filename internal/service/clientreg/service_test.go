package clientreg

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/minicrm/backend/internal/auth"
	"github.com/minicrm/backend/internal/domain"
)

//go:generate moq -out client_repo_mock_test.go -pkg clientreg . clientRepo

var _ clientRepo = &clientRepoMock{}

type clientRepoMock struct {
	CreateFunc          func(ctx context.Context, c *domain.Client) (*domain.Client, error)
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	GetByTelegramIDFunc func(ctx context.Context, telegramID int64) (*domain.Client, error)
	UpdateProfileFunc   func(ctx context.Context, id uuid.UUID, username, firstName, lastName *string) error
	SetConsentFunc      func(ctx context.Context, id uuid.UUID, version string, acceptedAt time.Time) error
	ListFunc            func(ctx context.Context) ([]domain.ClientSummary, error)
}

func (m *clientRepoMock) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	if m.CreateFunc == nil {
		panic("clientRepoMock.CreateFunc: method is nil but clientRepo.Create was just called")
	}
	return m.CreateFunc(ctx, c)
}

func (m *clientRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	if m.GetByIDFunc == nil {
		panic("clientRepoMock.GetByIDFunc: method is nil but clientRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *clientRepoMock) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Client, error) {
	if m.GetByTelegramIDFunc == nil {
		panic("clientRepoMock.GetByTelegramIDFunc: method is nil but clientRepo.GetByTelegramID was just called")
	}
	return m.GetByTelegramIDFunc(ctx, telegramID)
}

func (m *clientRepoMock) UpdateProfile(ctx context.Context, id uuid.UUID, username, firstName, lastName *string) error {
	if m.UpdateProfileFunc == nil {
		panic("clientRepoMock.UpdateProfileFunc: method is nil but clientRepo.UpdateProfile was just called")
	}
	return m.UpdateProfileFunc(ctx, id, username, firstName, lastName)
}

func (m *clientRepoMock) SetConsent(ctx context.Context, id uuid.UUID, version string, acceptedAt time.Time) error {
	if m.SetConsentFunc == nil {
		panic("clientRepoMock.SetConsentFunc: method is nil but clientRepo.SetConsent was just called")
	}
	return m.SetConsentFunc(ctx, id, version, acceptedAt)
}

func (m *clientRepoMock) List(ctx context.Context) ([]domain.ClientSummary, error) {
	if m.ListFunc == nil {
		panic("clientRepoMock.ListFunc: method is nil but clientRepo.List was just called")
	}
	return m.ListFunc(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptrString(s string) *string { return &s }

func TestService_ResolveOrCreate_NewClient(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	identity := &auth.Identity{
		TelegramID: 777,
		Username:   ptrString("durov"),
		FirstName:  ptrString("Pavel"),
	}

	clients := &clientRepoMock{
		CreateFunc: func(ctx context.Context, c *domain.Client) (*domain.Client, error) {
			if c.TelegramID != 777 {
				t.Errorf("Create TelegramID = %d, want 777", c.TelegramID)
			}
			created := *c
			created.ID = clientID
			created.CreatedAt = time.Now()
			return &created, nil
		},
	}

	svc := NewService(testLogger(), clients, "v1")

	got, err := svc.ResolveOrCreate(context.Background(), identity)
	if err != nil {
		t.Fatalf("ResolveOrCreate() error = %v", err)
	}
	if got.ID != clientID {
		t.Errorf("ID = %s, want %s", got.ID, clientID)
	}
}

func TestService_ResolveOrCreate_RefreshesProfile(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	identity := &auth.Identity{
		TelegramID: 777,
		Username:   ptrString("new_name"),
	}

	var updated bool
	clients := &clientRepoMock{
		CreateFunc: func(ctx context.Context, c *domain.Client) (*domain.Client, error) {
			// Existing record with a stale username.
			return &domain.Client{
				ID:         clientID,
				TelegramID: 777,
				Username:   ptrString("old_name"),
			}, nil
		},
		UpdateProfileFunc: func(ctx context.Context, id uuid.UUID, username, firstName, lastName *string) error {
			updated = true
			if id != clientID {
				t.Errorf("UpdateProfile id = %s, want %s", id, clientID)
			}
			if username == nil || *username != "new_name" {
				t.Errorf("UpdateProfile username = %v, want new_name", username)
			}
			return nil
		},
	}

	svc := NewService(testLogger(), clients, "v1")

	got, err := svc.ResolveOrCreate(context.Background(), identity)
	if err != nil {
		t.Fatalf("ResolveOrCreate() error = %v", err)
	}
	if !updated {
		t.Error("UpdateProfile was not called for stale profile")
	}
	if got.Username == nil || *got.Username != "new_name" {
		t.Errorf("Username = %v, want new_name", got.Username)
	}
}

func TestService_ResolveOrCreate_Concurrent(t *testing.T) {
	t.Parallel()

	// The repository converges on one row; every resolve must return it.
	clientID := uuid.New()
	clients := &clientRepoMock{
		CreateFunc: func(ctx context.Context, c *domain.Client) (*domain.Client, error) {
			return &domain.Client{ID: clientID, TelegramID: c.TelegramID, Username: c.Username}, nil
		},
	}

	svc := NewService(testLogger(), clients, "v1")
	identity := &auth.Identity{TelegramID: 777, Username: ptrString("durov")}

	const workers = 20
	var wg sync.WaitGroup
	ids := make([]uuid.UUID, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := svc.ResolveOrCreate(context.Background(), identity)
			if err != nil {
				t.Errorf("ResolveOrCreate() error = %v", err)
				return
			}
			ids[i] = got.ID
		}(i)
	}
	wg.Wait()

	for i, id := range ids {
		if id != clientID {
			t.Errorf("worker %d got id %s, want %s", i, id, clientID)
		}
	}
}

func TestService_RecordConsent(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()

	var gotVersion string
	clients := &clientRepoMock{
		GetByTelegramIDFunc: func(ctx context.Context, telegramID int64) (*domain.Client, error) {
			return &domain.Client{ID: clientID, TelegramID: telegramID}, nil
		},
		SetConsentFunc: func(ctx context.Context, id uuid.UUID, version string, acceptedAt time.Time) error {
			if id != clientID {
				t.Errorf("SetConsent id = %s, want %s", id, clientID)
			}
			gotVersion = version
			return nil
		},
	}

	svc := NewService(testLogger(), clients, "v2")

	if err := svc.RecordConsent(context.Background(), 777); err != nil {
		t.Fatalf("RecordConsent() error = %v", err)
	}
	if gotVersion != "v2" {
		t.Errorf("version = %q, want v2", gotVersion)
	}
}

func TestService_RecordConsent_UnknownClientIsNoop(t *testing.T) {
	t.Parallel()

	clients := &clientRepoMock{
		GetByTelegramIDFunc: func(ctx context.Context, telegramID int64) (*domain.Client, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := NewService(testLogger(), clients, "v1")

	if err := svc.RecordConsent(context.Background(), 404); err != nil {
		t.Errorf("RecordConsent() for unknown user error = %v, want nil", err)
	}
}

func TestService_RecordConsent_RepoError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	clients := &clientRepoMock{
		GetByTelegramIDFunc: func(ctx context.Context, telegramID int64) (*domain.Client, error) {
			return nil, boom
		},
	}

	svc := NewService(testLogger(), clients, "v1")

	if err := svc.RecordConsent(context.Background(), 777); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
}
