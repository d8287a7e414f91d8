package manager

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minicrm/backend/internal/adapter/postgres"
	"github.com/minicrm/backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var managerColumns = []string{
	"id", "email", "password_hash", "role", "active", "created_at", "last_login_at",
}

// Repository provides access to the manager_users table.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a manager account. A duplicate email yields
// domain.ErrAlreadyExists.
func (r *Repository) Create(ctx context.Context, m *domain.Manager) (*domain.Manager, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Insert("manager_users").
		Columns("email", "password_hash", "role", "active").
		Values(m.Email, m.PasswordHash, m.Role, m.Active).
		Suffix("RETURNING " + joinColumns(managerColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert manager: %w", err)
	}

	var out domain.Manager
	if err := scanManager(q.QueryRow(ctx, query, args...), &out); err != nil {
		return nil, postgres.MapError(err, "manager")
	}
	return &out, nil
}

// GetByEmail returns a manager account by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Manager, error) {
	query, args, err := builder.
		Select(managerColumns...).
		From("manager_users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select manager: %w", err)
	}
	return r.queryOne(ctx, query, args)
}

// GetByID returns a manager account by its primary key.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Manager, error) {
	query, args, err := builder.
		Select(managerColumns...).
		From("manager_users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select manager: %w", err)
	}
	return r.queryOne(ctx, query, args)
}

// Count returns the number of manager accounts, active or not.
func (r *Repository) Count(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM manager_users").Scan(&n); err != nil {
		return 0, postgres.MapError(err, "manager")
	}
	return n, nil
}

// TouchLastLogin records a successful login time.
func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Update("manager_users").
		Set("last_login_at", at).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update manager: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "manager")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("manager %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repository) queryOne(ctx context.Context, query string, args []any) (*domain.Manager, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var m domain.Manager
	if err := scanManager(q.QueryRow(ctx, query, args...), &m); err != nil {
		return nil, postgres.MapError(err, "manager")
	}
	return &m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanManager(row rowScanner, m *domain.Manager) error {
	return row.Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Role, &m.Active, &m.CreatedAt, &m.LastLoginAt)
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
