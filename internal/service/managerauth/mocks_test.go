package managerauth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minicrm/backend/internal/domain"
)

//go:generate moq -out manager_repo_mock_test.go -pkg managerauth . managerRepo
//go:generate moq -out tx_manager_mock_test.go -pkg managerauth . txManager
//go:generate moq -out jwt_manager_mock_test.go -pkg managerauth . jwtManager

var _ managerRepo = &managerRepoMock{}

type managerRepoMock struct {
	CreateFunc         func(ctx context.Context, m *domain.Manager) (*domain.Manager, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*domain.Manager, error)
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Manager, error)
	CountFunc          func(ctx context.Context) (int, error)
	TouchLastLoginFunc func(ctx context.Context, id uuid.UUID, at time.Time) error

	mu          sync.Mutex
	createCalls []*domain.Manager
}

func (m *managerRepoMock) Create(ctx context.Context, mgr *domain.Manager) (*domain.Manager, error) {
	if m.CreateFunc == nil {
		panic("managerRepoMock.CreateFunc: method is nil but managerRepo.Create was just called")
	}
	m.mu.Lock()
	m.createCalls = append(m.createCalls, mgr)
	m.mu.Unlock()
	return m.CreateFunc(ctx, mgr)
}

func (m *managerRepoMock) CreateCalls() []*domain.Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

func (m *managerRepoMock) GetByEmail(ctx context.Context, email string) (*domain.Manager, error) {
	if m.GetByEmailFunc == nil {
		panic("managerRepoMock.GetByEmailFunc: method is nil but managerRepo.GetByEmail was just called")
	}
	return m.GetByEmailFunc(ctx, email)
}

func (m *managerRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Manager, error) {
	if m.GetByIDFunc == nil {
		panic("managerRepoMock.GetByIDFunc: method is nil but managerRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *managerRepoMock) Count(ctx context.Context) (int, error) {
	if m.CountFunc == nil {
		panic("managerRepoMock.CountFunc: method is nil but managerRepo.Count was just called")
	}
	return m.CountFunc(ctx)
}

func (m *managerRepoMock) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.TouchLastLoginFunc == nil {
		panic("managerRepoMock.TouchLastLoginFunc: method is nil but managerRepo.TouchLastLogin was just called")
	}
	return m.TouchLastLoginFunc(ctx, id, at)
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	return m.RunInTxFunc(ctx, fn)
}

// passthroughTx runs the callback without any transaction.
func passthroughTx() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

var _ jwtManager = &jwtManagerMock{}

type jwtManagerMock struct {
	GenerateTokenFunc func(managerID uuid.UUID, role string) (string, error)
	ValidateTokenFunc func(token string) (uuid.UUID, string, error)
}

func (m *jwtManagerMock) GenerateToken(managerID uuid.UUID, role string) (string, error) {
	if m.GenerateTokenFunc == nil {
		panic("jwtManagerMock.GenerateTokenFunc: method is nil but jwtManager.GenerateToken was just called")
	}
	return m.GenerateTokenFunc(managerID, role)
}

func (m *jwtManagerMock) ValidateToken(token string) (uuid.UUID, string, error) {
	if m.ValidateTokenFunc == nil {
		panic("jwtManagerMock.ValidateTokenFunc: method is nil but jwtManager.ValidateToken was just called")
	}
	return m.ValidateTokenFunc(token)
}
