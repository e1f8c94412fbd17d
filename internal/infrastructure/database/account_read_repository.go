package database

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hisabkhata/ledger-backend/internal/domain/account"
	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
)

// AccountReadRepository maintains the account_read projection table.
type AccountReadRepository struct {
	db *pgxpool.Pool
}

func NewAccountReadRepository(db *pgxpool.Pool) *AccountReadRepository {
	return &AccountReadRepository{db: db}
}

func (r *AccountReadRepository) Upsert(ctx context.Context, m *account.ReadModel) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO account_read (
			id, tenant_id, code, name, type, parent_id, currency, balance,
			status, version, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			balance = EXCLUDED.balance,
			status = EXCLUDED.status,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
		WHERE account_read.version < EXCLUDED.version
	`, m.ID, m.TenantID, m.Code, m.Name, m.Type, m.ParentID, m.Currency, m.Balance,
		m.Status, m.Version, m.UpdatedAt)
	if err != nil {
		return errors.NewInternalError("failed to upsert account read model").WithCause(err)
	}
	return nil
}

func (r *AccountReadRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*account.ReadModel, error) {
	return r.get(ctx, `
		SELECT id, tenant_id, code, name, type, parent_id, currency, balance,
			status, version, updated_at
		FROM account_read
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
}

func (r *AccountReadRepository) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*account.ReadModel, error) {
	return r.get(ctx, `
		SELECT id, tenant_id, code, name, type, parent_id, currency, balance,
			status, version, updated_at
		FROM account_read
		WHERE tenant_id = $1 AND code = $2
	`, tenantID, code)
}

func (r *AccountReadRepository) ListByType(ctx context.Context, tenantID uuid.UUID, accType account.Type) ([]*account.ReadModel, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, code, name, type, parent_id, currency, balance,
			status, version, updated_at
		FROM account_read
		WHERE tenant_id = $1 AND type = $2
		ORDER BY code ASC
	`, tenantID, accType.String())
	if err != nil {
		return nil, errors.NewInternalError("failed to list accounts").WithCause(err)
	}
	defer rows.Close()

	var models []*account.ReadModel
	for rows.Next() {
		m, err := scanAccountRead(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

func (r *AccountReadRepository) get(ctx context.Context, query string, args ...any) (*account.ReadModel, error) {
	row := r.db.QueryRow(ctx, query, args...)
	m, err := scanAccountRead(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFoundError("account")
		}
		return nil, err
	}
	return m, nil
}

func scanAccountRead(row pgx.Row) (*account.ReadModel, error) {
	var m account.ReadModel
	err := row.Scan(&m.ID, &m.TenantID, &m.Code, &m.Name, &m.Type, &m.ParentID, &m.Currency,
		&m.Balance, &m.Status, &m.Version, &m.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, errors.NewInternalError("failed to scan account read model").WithCause(err)
	}
	return &m, nil
}

var _ account.ReadRepository = (*AccountReadRepository)(nil)
