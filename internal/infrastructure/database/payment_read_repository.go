package database

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/payment"
)

// PaymentReadRepository maintains the payment_read projection table.
type PaymentReadRepository struct {
	db *pgxpool.Pool
}

func NewPaymentReadRepository(db *pgxpool.Pool) *PaymentReadRepository {
	return &PaymentReadRepository{db: db}
}

func (r *PaymentReadRepository) Upsert(ctx context.Context, m *payment.ReadModel) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payment_read (
			id, tenant_id, invoice_id, amount, method, status,
			transaction_ref, failure_reason, reversal_reason, reconciled_by,
			version, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			transaction_ref = EXCLUDED.transaction_ref,
			failure_reason = EXCLUDED.failure_reason,
			reversal_reason = EXCLUDED.reversal_reason,
			reconciled_by = EXCLUDED.reconciled_by,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
		WHERE payment_read.version < EXCLUDED.version
	`, m.ID, m.TenantID, m.InvoiceID, m.Amount, m.Method, m.Status,
		m.TransactionRef, m.FailureReason, m.ReversalReason, m.ReconciledBy,
		m.Version, m.UpdatedAt)
	if err != nil {
		return errors.NewInternalError("failed to upsert payment read model").WithCause(err)
	}
	return nil
}

func (r *PaymentReadRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*payment.ReadModel, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, invoice_id, amount, method, status,
			transaction_ref, failure_reason, reversal_reason, reconciled_by,
			version, updated_at
		FROM payment_read
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)

	m, err := scanPaymentRead(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFoundError("payment")
		}
		return nil, err
	}
	return m, nil
}

func (r *PaymentReadRepository) ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*payment.ReadModel, error) {
	return r.list(ctx, `
		SELECT id, tenant_id, invoice_id, amount, method, status,
			transaction_ref, failure_reason, reversal_reason, reconciled_by,
			version, updated_at
		FROM payment_read
		WHERE tenant_id = $1 AND invoice_id = $2
		ORDER BY updated_at ASC
	`, tenantID, invoiceID)
}

func (r *PaymentReadRepository) ListByStatus(ctx context.Context, tenantID uuid.UUID, status payment.Status, limit, offset int) ([]*payment.ReadModel, error) {
	return r.list(ctx, `
		SELECT id, tenant_id, invoice_id, amount, method, status,
			transaction_ref, failure_reason, reversal_reason, reconciled_by,
			version, updated_at
		FROM payment_read
		WHERE tenant_id = $1 AND status = $2
		ORDER BY updated_at DESC
		LIMIT $3 OFFSET $4
	`, tenantID, status.String(), limit, offset)
}

func (r *PaymentReadRepository) list(ctx context.Context, query string, args ...any) ([]*payment.ReadModel, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternalError("failed to list payments").WithCause(err)
	}
	defer rows.Close()

	var models []*payment.ReadModel
	for rows.Next() {
		m, err := scanPaymentRead(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

func scanPaymentRead(row pgx.Row) (*payment.ReadModel, error) {
	var m payment.ReadModel
	err := row.Scan(&m.ID, &m.TenantID, &m.InvoiceID, &m.Amount, &m.Method, &m.Status,
		&m.TransactionRef, &m.FailureReason, &m.ReversalReason, &m.ReconciledBy,
		&m.Version, &m.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, errors.NewInternalError("failed to scan payment read model").WithCause(err)
	}
	return &m, nil
}

var _ payment.ReadRepository = (*PaymentReadRepository)(nil)
