package client

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minicrm/backend/internal/adapter/postgres"
	"github.com/minicrm/backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var clientColumns = []string{
	"id", "telegram_id", "username", "first_name", "last_name",
	"consent_version", "consent_accepted_at", "created_at",
}

// Repository provides access to the clients table.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a client row unless one with the same telegram_id already
// exists. It returns the stored row either way, so concurrent callers racing
// on the same telegram_id all end up with the single winning row.
func (r *Repository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Insert("clients").
		Columns("telegram_id", "username", "first_name", "last_name").
		Values(c.TelegramID, c.Username, c.FirstName, c.LastName).
		Suffix("ON CONFLICT (telegram_id) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert client: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return nil, postgres.MapError(err, "client")
	}

	return r.GetByTelegramID(ctx, c.TelegramID)
}

// GetByID returns a client by its primary key.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query, args, err := builder.
		Select(clientColumns...).
		From("clients").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select client: %w", err)
	}
	return r.queryOne(ctx, query, args)
}

// GetByTelegramID returns a client by its Telegram user id.
func (r *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Client, error) {
	query, args, err := builder.
		Select(clientColumns...).
		From("clients").
		Where(sq.Eq{"telegram_id": telegramID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select client: %w", err)
	}
	return r.queryOne(ctx, query, args)
}

// UpdateProfile refreshes the mutable Telegram profile fields. A row that no
// longer matches the stored values is updated; an unchanged row is a no-op.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, username, firstName, lastName *string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Update("clients").
		Set("username", username).
		Set("first_name", firstName).
		Set("last_name", lastName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update client: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "client")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetConsent stamps the consent version and acceptance time on a client.
func (r *Repository) SetConsent(ctx context.Context, id uuid.UUID, version string, acceptedAt time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Update("clients").
		Set("consent_version", version).
		Set("consent_accepted_at", acceptedAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update consent: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "client")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List returns all clients with their request counts, newest first.
func (r *Repository) List(ctx context.Context) ([]domain.ClientSummary, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Select(
			"c.id", "c.telegram_id", "c.username", "c.first_name", "c.last_name",
			"c.consent_version", "c.consent_accepted_at", "c.created_at",
			"COUNT(r.id) AS requests_count",
		).
		From("clients c").
		LeftJoin("requests r ON r.client_id = c.id").
		GroupBy("c.id").
		OrderBy("c.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list clients: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "client")
	}
	defer rows.Close()

	var out []domain.ClientSummary
	for rows.Next() {
		var s domain.ClientSummary
		if err := rows.Scan(
			&s.ID, &s.TelegramID, &s.Username, &s.FirstName, &s.LastName,
			&s.ConsentVersion, &s.ConsentAcceptedAt, &s.CreatedAt,
			&s.RequestsCount,
		); err != nil {
			return nil, fmt.Errorf("scan client summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "client")
	}
	return out, nil
}

func (r *Repository) queryOne(ctx context.Context, query string, args []any) (*domain.Client, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var c domain.Client
	err := q.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.TelegramID, &c.Username, &c.FirstName, &c.LastName,
		&c.ConsentVersion, &c.ConsentAcceptedAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "client")
	}
	return &c, nil
}
