package request

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/minicrm/backend/internal/domain"
)

// requestRepo defines the request repository interface needed by the service.
type requestRepo interface {
	Create(ctx context.Context, req *domain.Request) (*domain.Request, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error)
	GetSummary(ctx context.Context, id uuid.UUID) (*domain.RequestSummary, error)
	List(ctx context.Context, filter domain.RequestFilter) ([]domain.RequestSummary, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.RequestSummary, error)
	UpdateGuarded(ctx context.Context, req *domain.Request, expectedStatus domain.RequestStatus) (*domain.Request, error)
	AppendHistory(ctx context.Context, e *domain.HistoryEntry) error
	ListHistory(ctx context.Context, requestID uuid.UUID) ([]domain.HistoryEntry, error)
}

// refRepo defines the reference data lookups needed by the service.
type refRepo interface {
	GetDirection(ctx context.Context, id uuid.UUID) (*domain.Direction, error)
	GetSlot(ctx context.Context, id uuid.UUID) (*domain.DeliverySlot, error)
}

// sequenceRepo defines the request number source.
type sequenceRepo interface {
	NextRequestNumber(ctx context.Context) (int64, error)
}

// txManager defines the transaction manager interface needed by the service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// notifier delivers request events to the client's Telegram chat. Calls are
// made after commit and failures never affect the operation result.
type notifier interface {
	RequestCreated(ctx context.Context, summary *domain.RequestSummary)
	StatusChanged(ctx context.Context, summary *domain.RequestSummary, from domain.RequestStatus)
}

// Service implements the delivery request lifecycle.
type Service struct {
	log      *slog.Logger
	requests requestRepo
	refs     refRepo
	seq      sequenceRepo
	tx       txManager
	notify   notifier
}

// NewService creates a new request service instance.
func NewService(logger *slog.Logger, requests requestRepo, refs refRepo, seq sequenceRepo, tx txManager, notify notifier) *Service {
	return &Service{
		log:      logger.With("service", "request"),
		requests: requests,
		refs:     refs,
		seq:      seq,
		tx:       tx,
		notify:   notify,
	}
}
