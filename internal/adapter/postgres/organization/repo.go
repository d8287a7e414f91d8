package organization

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minicrm/backend/internal/adapter/postgres"
	"github.com/minicrm/backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var orgColumns = []string{
	"id", "client_id", "name", "inn", "kpp", "ogrn", "address",
	"settlement_account", "bik", "correspondent_account", "bank",
	"director", "contract", "created_at", "updated_at",
}

// Repository provides access to the organizations table.
// Each client has at most one organization.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert creates the organization for a client or replaces its requisites.
func (r *Repository) Upsert(ctx context.Context, o *domain.Organization) (*domain.Organization, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Insert("organizations").
		Columns(
			"client_id", "name", "inn", "kpp", "ogrn", "address",
			"settlement_account", "bik", "correspondent_account", "bank",
			"director", "contract",
		).
		Values(
			o.ClientID, o.Name, o.INN, o.KPP, o.OGRN, o.Address,
			o.SettlementAccount, o.BIK, o.CorrespondentAccount, o.Bank,
			o.Director, o.Contract,
		).
		Suffix(`ON CONFLICT (client_id) DO UPDATE SET
			name = EXCLUDED.name,
			inn = EXCLUDED.inn,
			kpp = EXCLUDED.kpp,
			ogrn = EXCLUDED.ogrn,
			address = EXCLUDED.address,
			settlement_account = EXCLUDED.settlement_account,
			bik = EXCLUDED.bik,
			correspondent_account = EXCLUDED.correspondent_account,
			bank = EXCLUDED.bank,
			director = EXCLUDED.director,
			contract = EXCLUDED.contract,
			updated_at = now()
		RETURNING ` + strings.Join(orgColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert organization: %w", err)
	}

	var out domain.Organization
	if err := scanOrg(q.QueryRow(ctx, query, args...), &out); err != nil {
		return nil, postgres.MapError(err, "organization")
	}
	return &out, nil
}

// GetByClientID returns the organization attached to a client.
func (r *Repository) GetByClientID(ctx context.Context, clientID uuid.UUID) (*domain.Organization, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Select(orgColumns...).
		From("organizations").
		Where(sq.Eq{"client_id": clientID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select organization: %w", err)
	}

	var o domain.Organization
	if err := scanOrg(q.QueryRow(ctx, query, args...), &o); err != nil {
		return nil, postgres.MapError(err, "organization")
	}
	return &o, nil
}

// Delete removes the organization attached to a client.
func (r *Repository) Delete(ctx context.Context, clientID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Delete("organizations").
		Where(sq.Eq{"client_id": clientID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete organization: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "organization")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("organization for client %s: %w", clientID, domain.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrg(row rowScanner, o *domain.Organization) error {
	return row.Scan(
		&o.ID, &o.ClientID, &o.Name, &o.INN, &o.KPP, &o.OGRN, &o.Address,
		&o.SettlementAccount, &o.BIK, &o.CorrespondentAccount, &o.Bank,
		&o.Director, &o.Contract, &o.CreatedAt, &o.UpdatedAt,
	)
}
