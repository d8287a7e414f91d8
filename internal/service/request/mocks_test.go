package request

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/minicrm/backend/internal/domain"
)

//go:generate moq -out request_repo_mock_test.go -pkg request . requestRepo
//go:generate moq -out ref_repo_mock_test.go -pkg request . refRepo
//go:generate moq -out sequence_repo_mock_test.go -pkg request . sequenceRepo
//go:generate moq -out tx_manager_mock_test.go -pkg request . txManager
//go:generate moq -out notifier_mock_test.go -pkg request . notifier

var _ requestRepo = &requestRepoMock{}

type requestRepoMock struct {
	CreateFunc        func(ctx context.Context, req *domain.Request) (*domain.Request, error)
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Request, error)
	GetSummaryFunc    func(ctx context.Context, id uuid.UUID) (*domain.RequestSummary, error)
	ListFunc          func(ctx context.Context, filter domain.RequestFilter) ([]domain.RequestSummary, error)
	ListByClientFunc  func(ctx context.Context, clientID uuid.UUID) ([]domain.RequestSummary, error)
	UpdateGuardedFunc func(ctx context.Context, req *domain.Request, expectedStatus domain.RequestStatus) (*domain.Request, error)
	AppendHistoryFunc func(ctx context.Context, e *domain.HistoryEntry) error
	ListHistoryFunc   func(ctx context.Context, requestID uuid.UUID) ([]domain.HistoryEntry, error)

	mu           sync.Mutex
	historyCalls []*domain.HistoryEntry
	createCalls  []*domain.Request
}

func (m *requestRepoMock) Create(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	if m.CreateFunc == nil {
		panic("requestRepoMock.CreateFunc: method is nil but requestRepo.Create was just called")
	}
	m.mu.Lock()
	m.createCalls = append(m.createCalls, req)
	m.mu.Unlock()
	return m.CreateFunc(ctx, req)
}

func (m *requestRepoMock) CreateCalls() []*domain.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

func (m *requestRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	if m.GetByIDFunc == nil {
		panic("requestRepoMock.GetByIDFunc: method is nil but requestRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *requestRepoMock) GetSummary(ctx context.Context, id uuid.UUID) (*domain.RequestSummary, error) {
	if m.GetSummaryFunc == nil {
		panic("requestRepoMock.GetSummaryFunc: method is nil but requestRepo.GetSummary was just called")
	}
	return m.GetSummaryFunc(ctx, id)
}

func (m *requestRepoMock) List(ctx context.Context, filter domain.RequestFilter) ([]domain.RequestSummary, error) {
	if m.ListFunc == nil {
		panic("requestRepoMock.ListFunc: method is nil but requestRepo.List was just called")
	}
	return m.ListFunc(ctx, filter)
}

func (m *requestRepoMock) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.RequestSummary, error) {
	if m.ListByClientFunc == nil {
		panic("requestRepoMock.ListByClientFunc: method is nil but requestRepo.ListByClient was just called")
	}
	return m.ListByClientFunc(ctx, clientID)
}

func (m *requestRepoMock) UpdateGuarded(ctx context.Context, req *domain.Request, expectedStatus domain.RequestStatus) (*domain.Request, error) {
	if m.UpdateGuardedFunc == nil {
		panic("requestRepoMock.UpdateGuardedFunc: method is nil but requestRepo.UpdateGuarded was just called")
	}
	return m.UpdateGuardedFunc(ctx, req, expectedStatus)
}

func (m *requestRepoMock) AppendHistory(ctx context.Context, e *domain.HistoryEntry) error {
	if m.AppendHistoryFunc == nil {
		panic("requestRepoMock.AppendHistoryFunc: method is nil but requestRepo.AppendHistory was just called")
	}
	m.mu.Lock()
	m.historyCalls = append(m.historyCalls, e)
	m.mu.Unlock()
	return m.AppendHistoryFunc(ctx, e)
}

func (m *requestRepoMock) AppendHistoryCalls() []*domain.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.historyCalls
}

func (m *requestRepoMock) ListHistory(ctx context.Context, requestID uuid.UUID) ([]domain.HistoryEntry, error) {
	if m.ListHistoryFunc == nil {
		panic("requestRepoMock.ListHistoryFunc: method is nil but requestRepo.ListHistory was just called")
	}
	return m.ListHistoryFunc(ctx, requestID)
}

var _ refRepo = &refRepoMock{}

type refRepoMock struct {
	GetDirectionFunc func(ctx context.Context, id uuid.UUID) (*domain.Direction, error)
	GetSlotFunc      func(ctx context.Context, id uuid.UUID) (*domain.DeliverySlot, error)
}

func (m *refRepoMock) GetDirection(ctx context.Context, id uuid.UUID) (*domain.Direction, error) {
	if m.GetDirectionFunc == nil {
		panic("refRepoMock.GetDirectionFunc: method is nil but refRepo.GetDirection was just called")
	}
	return m.GetDirectionFunc(ctx, id)
}

func (m *refRepoMock) GetSlot(ctx context.Context, id uuid.UUID) (*domain.DeliverySlot, error) {
	if m.GetSlotFunc == nil {
		panic("refRepoMock.GetSlotFunc: method is nil but refRepo.GetSlot was just called")
	}
	return m.GetSlotFunc(ctx, id)
}

var _ sequenceRepo = &sequenceRepoMock{}

type sequenceRepoMock struct {
	NextRequestNumberFunc func(ctx context.Context) (int64, error)
}

func (m *sequenceRepoMock) NextRequestNumber(ctx context.Context) (int64, error) {
	if m.NextRequestNumberFunc == nil {
		panic("sequenceRepoMock.NextRequestNumberFunc: method is nil but sequenceRepo.NextRequestNumber was just called")
	}
	return m.NextRequestNumberFunc(ctx)
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

var _ notifier = &notifierMock{}

// notifierMock records notifications; done is closed-channel signaling so
// tests can wait for the fire-and-forget goroutine.
type notifierMock struct {
	mu       sync.Mutex
	created  []*domain.RequestSummary
	changed  []statusChange
	createdC chan struct{}
	changedC chan struct{}
}

type statusChange struct {
	summary *domain.RequestSummary
	from    domain.RequestStatus
}

func newNotifierMock() *notifierMock {
	return &notifierMock{
		createdC: make(chan struct{}, 16),
		changedC: make(chan struct{}, 16),
	}
}

func (m *notifierMock) RequestCreated(ctx context.Context, summary *domain.RequestSummary) {
	m.mu.Lock()
	m.created = append(m.created, summary)
	m.mu.Unlock()
	m.createdC <- struct{}{}
}

func (m *notifierMock) StatusChanged(ctx context.Context, summary *domain.RequestSummary, from domain.RequestStatus) {
	m.mu.Lock()
	m.changed = append(m.changed, statusChange{summary: summary, from: from})
	m.mu.Unlock()
	m.changedC <- struct{}{}
}

func (m *notifierMock) CreatedCalls() []*domain.RequestSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

func (m *notifierMock) ChangedCalls() []statusChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changed
}
