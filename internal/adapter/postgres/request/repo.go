package request

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minicrm/backend/internal/adapter/postgres"
	"github.com/minicrm/backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var requestColumns = []string{
	"id", "request_number", "client_id", "direction_id", "delivery_slot_id",
	"boxes_count", "weight_kg", "volume_m3", "comment", "status",
	"created_at", "updated_at",
}

// summaryColumns joins requests with directions, delivery slots and clients
// for the listing projection.
var summaryColumns = []string{
	"r.id", "r.request_number", "r.client_id", "r.direction_id", "r.delivery_slot_id",
	"r.boxes_count", "r.weight_kg", "r.volume_m3", "r.comment", "r.status",
	"r.created_at", "r.updated_at",
	"d.name AS direction_name", "s.date AS delivery_date",
	"c.telegram_id", "c.username AS client_username",
}

// Repository provides access to the requests and request_history tables.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a request row. The caller supplies the pre-reserved number;
// a duplicate number surfaces as domain.ErrAlreadyExists so the caller can
// retry with a fresh one.
func (r *Repository) Create(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Insert("requests").
		Columns(
			"request_number", "client_id", "direction_id", "delivery_slot_id",
			"boxes_count", "weight_kg", "volume_m3", "comment", "status",
		).
		Values(
			req.Number, req.ClientID, req.DirectionID, req.DeliverySlotID,
			req.BoxesCount, req.WeightKg, req.VolumeM3, req.Comment, req.Status,
		).
		Suffix("RETURNING " + strings.Join(requestColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert request: %w", err)
	}

	var out domain.Request
	if err := scanRequest(q.QueryRow(ctx, query, args...), &out); err != nil {
		return nil, postgres.MapError(err, "request")
	}
	return &out, nil
}

// GetByID returns a bare request row by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Select(requestColumns...).
		From("requests").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select request: %w", err)
	}

	var out domain.Request
	if err := scanRequest(q.QueryRow(ctx, query, args...), &out); err != nil {
		return nil, postgres.MapError(err, "request")
	}
	return &out, nil
}

// GetSummary returns the joined projection for a single request.
func (r *Repository) GetSummary(ctx context.Context, id uuid.UUID) (*domain.RequestSummary, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := summarySelect().
		Where(sq.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select request summary: %w", err)
	}

	var s domain.RequestSummary
	if err := scanSummary(q.QueryRow(ctx, query, args...), &s); err != nil {
		return nil, postgres.MapError(err, "request")
	}
	return &s, nil
}

// List returns request summaries matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter domain.RequestFilter) ([]domain.RequestSummary, error) {
	sel := summarySelect().OrderBy("r.created_at DESC", "r.request_number DESC")

	if filter.Status != nil {
		sel = sel.Where(sq.Eq{"r.status": *filter.Status})
	}
	if filter.DirectionID != nil {
		sel = sel.Where(sq.Eq{"r.direction_id": *filter.DirectionID})
	}
	if text := strings.TrimSpace(filter.SearchText); text != "" {
		sel = sel.Where(sq.Or{
			sq.ILike{"c.username": "%" + text + "%"},
			sq.Expr("c.telegram_id::text LIKE ?", "%"+text+"%"),
		})
	}

	return r.listSummaries(ctx, sel)
}

// ListByClient returns the client's own request summaries, newest first.
func (r *Repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.RequestSummary, error) {
	sel := summarySelect().
		Where(sq.Eq{"r.client_id": clientID}).
		OrderBy("r.created_at DESC", "r.request_number DESC")
	return r.listSummaries(ctx, sel)
}

// UpdateGuarded applies field and status changes to a request only if its
// current status still equals expectedStatus. It returns domain.ErrConflict
// when another writer got there first.
func (r *Repository) UpdateGuarded(ctx context.Context, req *domain.Request, expectedStatus domain.RequestStatus) (*domain.Request, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Update("requests").
		Set("direction_id", req.DirectionID).
		Set("delivery_slot_id", req.DeliverySlotID).
		Set("boxes_count", req.BoxesCount).
		Set("weight_kg", req.WeightKg).
		Set("volume_m3", req.VolumeM3).
		Set("comment", req.Comment).
		Set("status", req.Status).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": req.ID, "status": expectedStatus}).
		Suffix("RETURNING " + strings.Join(requestColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update request: %w", err)
	}

	var out domain.Request
	if err := scanRequest(q.QueryRow(ctx, query, args...), &out); err != nil {
		mapped := postgres.MapError(err, "request")
		if !errors.Is(mapped, domain.ErrNotFound) {
			return nil, mapped
		}
		// No row matched id+status. Distinguish a missing request from a
		// concurrent status change.
		if _, getErr := r.GetByID(ctx, req.ID); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("request %s changed concurrently: %w", req.ID, domain.ErrConflict)
	}
	return &out, nil
}

// AppendHistory writes one entry to the append-only audit ledger.
func (r *Repository) AppendHistory(ctx context.Context, e *domain.HistoryEntry) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Insert("request_history").
		Columns("request_id", "event_type", "from_status", "to_status", "actor_type", "actor_id", "comment").
		Values(e.RequestID, e.EventType, e.FromStatus, e.ToStatus, e.ActorType, e.ActorID, e.Comment).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert history: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "request history")
	}
	return nil
}

// ListHistory returns the ledger entries for a request, newest first.
func (r *Repository) ListHistory(ctx context.Context, requestID uuid.UUID) ([]domain.HistoryEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Select("id", "request_id", "event_type", "from_status", "to_status", "actor_type", "actor_id", "comment", "created_at").
		From("request_history").
		Where(sq.Eq{"request_id": requestID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list history: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "request history")
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.ID, &e.RequestID, &e.EventType, &e.FromStatus, &e.ToStatus, &e.ActorType, &e.ActorID, &e.Comment, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "request history")
	}
	return out, nil
}

func (r *Repository) listSummaries(ctx context.Context, sel sq.SelectBuilder) ([]domain.RequestSummary, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list requests: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "request")
	}
	defer rows.Close()

	var out []domain.RequestSummary
	for rows.Next() {
		var s domain.RequestSummary
		if err := scanSummary(rows, &s); err != nil {
			return nil, fmt.Errorf("scan request summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "request")
	}
	return out, nil
}

func summarySelect() sq.SelectBuilder {
	return builder.
		Select(summaryColumns...).
		From("requests r").
		Join("directions d ON d.id = r.direction_id").
		Join("delivery_slots s ON s.id = r.delivery_slot_id").
		Join("clients c ON c.id = r.client_id")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner, req *domain.Request) error {
	return row.Scan(
		&req.ID, &req.Number, &req.ClientID, &req.DirectionID, &req.DeliverySlotID,
		&req.BoxesCount, &req.WeightKg, &req.VolumeM3, &req.Comment, &req.Status,
		&req.CreatedAt, &req.UpdatedAt,
	)
}

func scanSummary(row rowScanner, s *domain.RequestSummary) error {
	return row.Scan(
		&s.ID, &s.Number, &s.ClientID, &s.DirectionID, &s.DeliverySlotID,
		&s.BoxesCount, &s.WeightKg, &s.VolumeM3, &s.Comment, &s.Status,
		&s.CreatedAt, &s.UpdatedAt,
		&s.DirectionName, &s.DeliveryDate,
		&s.TelegramID, &s.ClientUsername,
	)
}
