package database

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/invoice"
)

// InvoiceReadRepository maintains the invoice_read projection table.
type InvoiceReadRepository struct {
	db *pgxpool.Pool
}

func NewInvoiceReadRepository(db *pgxpool.Pool) *InvoiceReadRepository {
	return &InvoiceReadRepository{db: db}
}

// Upsert writes the row unless a newer projection revision is already there.
func (r *InvoiceReadRepository) Upsert(ctx context.Context, m *invoice.ReadModel) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO invoice_read (
			id, tenant_id, number, status, vendor_id, customer_id,
			issue_date, due_date, currency, subtotal, tax, grand_total,
			paid_to_date, mushak_reference, cancel_reason, version, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			paid_to_date = EXCLUDED.paid_to_date,
			mushak_reference = EXCLUDED.mushak_reference,
			cancel_reason = EXCLUDED.cancel_reason,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
		WHERE invoice_read.version < EXCLUDED.version
	`, m.ID, m.TenantID, m.Number, m.Status, m.VendorID, m.CustomerID,
		m.IssueDate, m.DueDate, m.Currency, m.Subtotal, m.Tax, m.GrandTotal,
		m.PaidToDate, m.MushakReference, m.CancelReason, m.Version, m.UpdatedAt)
	if err != nil {
		return errors.NewInternalError("failed to upsert invoice read model").WithCause(err)
	}
	return nil
}

func (r *InvoiceReadRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*invoice.ReadModel, error) {
	return r.get(ctx, `
		SELECT id, tenant_id, number, status, vendor_id, customer_id,
			issue_date, due_date, currency, subtotal, tax, grand_total,
			paid_to_date, mushak_reference, cancel_reason, version, updated_at
		FROM invoice_read
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
}

func (r *InvoiceReadRepository) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*invoice.ReadModel, error) {
	return r.get(ctx, `
		SELECT id, tenant_id, number, status, vendor_id, customer_id,
			issue_date, due_date, currency, subtotal, tax, grand_total,
			paid_to_date, mushak_reference, cancel_reason, version, updated_at
		FROM invoice_read
		WHERE tenant_id = $1 AND number = $2
	`, tenantID, number)
}

func (r *InvoiceReadRepository) ListByStatus(ctx context.Context, tenantID uuid.UUID, status invoice.Status, limit, offset int) ([]*invoice.ReadModel, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, number, status, vendor_id, customer_id,
			issue_date, due_date, currency, subtotal, tax, grand_total,
			paid_to_date, mushak_reference, cancel_reason, version, updated_at
		FROM invoice_read
		WHERE tenant_id = $1 AND status = $2
		ORDER BY issue_date DESC, number DESC
		LIMIT $3 OFFSET $4
	`, tenantID, status.String(), limit, offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list invoices").WithCause(err)
	}
	defer rows.Close()

	var models []*invoice.ReadModel
	for rows.Next() {
		m, err := scanInvoiceRead(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

func (r *InvoiceReadRepository) get(ctx context.Context, query string, args ...any) (*invoice.ReadModel, error) {
	row := r.db.QueryRow(ctx, query, args...)
	m, err := scanInvoiceRead(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFoundError("invoice")
		}
		return nil, err
	}
	return m, nil
}

func scanInvoiceRead(row pgx.Row) (*invoice.ReadModel, error) {
	var m invoice.ReadModel
	err := row.Scan(&m.ID, &m.TenantID, &m.Number, &m.Status, &m.VendorID, &m.CustomerID,
		&m.IssueDate, &m.DueDate, &m.Currency, &m.Subtotal, &m.Tax, &m.GrandTotal,
		&m.PaidToDate, &m.MushakReference, &m.CancelReason, &m.Version, &m.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, errors.NewInternalError("failed to scan invoice read model").WithCause(err)
	}
	return &m, nil
}

var _ invoice.ReadRepository = (*InvoiceReadRepository)(nil)
