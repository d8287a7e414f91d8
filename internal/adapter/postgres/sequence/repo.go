package sequence

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minicrm/backend/internal/adapter/postgres"
)

// Repository hands out request numbers from a database sequence.
// nextval never returns the same value twice, even across concurrent
// transactions, so numbers are unique; gaps appear when a holding
// transaction rolls back, which is acceptable.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextRequestNumber reserves and returns the next request number.
func (r *Repository) NextRequestNumber(ctx context.Context) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int64
	if err := q.QueryRow(ctx, "SELECT nextval('request_number_seq')").Scan(&n); err != nil {
		return 0, postgres.MapError(err, "request number")
	}
	return n, nil
}
