package refdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minicrm/backend/internal/adapter/postgres"
	"github.com/minicrm/backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repository provides access to the directions and delivery_slots tables.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateDirection inserts a direction. A duplicate name yields
// domain.ErrAlreadyExists.
func (r *Repository) CreateDirection(ctx context.Context, name string) (*domain.Direction, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Insert("directions").
		Columns("name").
		Values(name).
		Suffix("RETURNING id, name, active, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert direction: %w", err)
	}

	var d domain.Direction
	if err := q.QueryRow(ctx, query, args...).Scan(&d.ID, &d.Name, &d.Active, &d.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "direction")
	}
	return &d, nil
}

// GetDirection returns a direction by ID.
func (r *Repository) GetDirection(ctx context.Context, id uuid.UUID) (*domain.Direction, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Select("id", "name", "active", "created_at").
		From("directions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select direction: %w", err)
	}

	var d domain.Direction
	if err := q.QueryRow(ctx, query, args...).Scan(&d.ID, &d.Name, &d.Active, &d.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "direction")
	}
	return &d, nil
}

// ListDirections returns directions ordered by name. When activeOnly is set,
// deactivated directions are excluded.
func (r *Repository) ListDirections(ctx context.Context, activeOnly bool) ([]domain.Direction, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sel := builder.
		Select("id", "name", "active", "created_at").
		From("directions").
		OrderBy("name ASC")
	if activeOnly {
		sel = sel.Where(sq.Eq{"active": true})
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list directions: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "direction")
	}
	defer rows.Close()

	var out []domain.Direction
	for rows.Next() {
		var d domain.Direction
		if err := rows.Scan(&d.ID, &d.Name, &d.Active, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan direction: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "direction")
	}
	return out, nil
}

// SetDirectionActive toggles a direction without deleting it, so historical
// requests keep a valid reference.
func (r *Repository) SetDirectionActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Update("directions").
		Set("active", active).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update direction: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "direction")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("direction %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// CreateSlot inserts a delivery slot, optionally bound to a direction.
func (r *Repository) CreateSlot(ctx context.Context, directionID *uuid.UUID, date time.Time) (*domain.DeliverySlot, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Insert("delivery_slots").
		Columns("direction_id", "date").
		Values(directionID, date).
		Suffix("RETURNING id, direction_id, date, active, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert slot: %w", err)
	}

	var s domain.DeliverySlot
	if err := q.QueryRow(ctx, query, args...).Scan(&s.ID, &s.DirectionID, &s.Date, &s.Active, &s.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "delivery slot")
	}
	return &s, nil
}

// GetSlot returns a delivery slot by ID.
func (r *Repository) GetSlot(ctx context.Context, id uuid.UUID) (*domain.DeliverySlot, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Select("id", "direction_id", "date", "active", "created_at").
		From("delivery_slots").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select slot: %w", err)
	}

	var s domain.DeliverySlot
	if err := q.QueryRow(ctx, query, args...).Scan(&s.ID, &s.DirectionID, &s.Date, &s.Active, &s.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "delivery slot")
	}
	return &s, nil
}

// ListSlots returns delivery slots ordered by date. Filters are optional.
func (r *Repository) ListSlots(ctx context.Context, directionID *uuid.UUID, activeOnly bool) ([]domain.DeliverySlot, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sel := builder.
		Select("id", "direction_id", "date", "active", "created_at").
		From("delivery_slots").
		OrderBy("date ASC")
	if directionID != nil {
		sel = sel.Where(sq.Eq{"direction_id": *directionID})
	}
	if activeOnly {
		sel = sel.Where(sq.Eq{"active": true})
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list slots: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "delivery slot")
	}
	defer rows.Close()

	var out []domain.DeliverySlot
	for rows.Next() {
		var s domain.DeliverySlot
		if err := rows.Scan(&s.ID, &s.DirectionID, &s.Date, &s.Active, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "delivery slot")
	}
	return out, nil
}

// DeleteSlot removes a delivery slot. A slot referenced by any request
// cannot be removed and yields domain.ErrConflict.
func (r *Repository) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Delete("delivery_slots").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete slot: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("delivery slot %s is referenced by requests: %w", id, domain.ErrConflict)
		}
		return postgres.MapError(err, "delivery slot")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delivery slot %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetSlotActive toggles a delivery slot.
func (r *Repository) SetSlotActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Update("delivery_slots").
		Set("active", active).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update slot: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "delivery slot")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delivery slot %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
