package database

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/journal"
)

// JournalReadRepository maintains the journal_read projection table. Lines
// live in a JSONB column next to the totals.
type JournalReadRepository struct {
	db *pgxpool.Pool
}

func NewJournalReadRepository(db *pgxpool.Pool) *JournalReadRepository {
	return &JournalReadRepository{db: db}
}

func (r *JournalReadRepository) Upsert(ctx context.Context, m *journal.ReadModel) error {
	lines, err := json.Marshal(m.Lines)
	if err != nil {
		return errors.NewInternalError("failed to marshal journal lines").WithCause(err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO journal_read (
			id, tenant_id, number, status, entry_type, description,
			entry_date, fiscal_period, total_debit, total_credit, lines,
			posted_by, posted_at, reversing_entry_id, version, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			total_debit = EXCLUDED.total_debit,
			total_credit = EXCLUDED.total_credit,
			lines = EXCLUDED.lines,
			posted_by = EXCLUDED.posted_by,
			posted_at = EXCLUDED.posted_at,
			reversing_entry_id = EXCLUDED.reversing_entry_id,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
		WHERE journal_read.version < EXCLUDED.version
	`, m.ID, m.TenantID, m.Number, m.Status, m.EntryType, m.Description,
		m.EntryDate, m.FiscalPeriod, m.TotalDebit, m.TotalCredit, lines,
		m.PostedBy, m.PostedAt, m.ReversingEntryID, m.Version, m.UpdatedAt)
	if err != nil {
		return errors.NewInternalError("failed to upsert journal read model").WithCause(err)
	}
	return nil
}

func (r *JournalReadRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*journal.ReadModel, error) {
	return r.get(ctx, `
		SELECT id, tenant_id, number, status, entry_type, description,
			entry_date, fiscal_period, total_debit, total_credit, lines,
			posted_by, posted_at, reversing_entry_id, version, updated_at
		FROM journal_read
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
}

func (r *JournalReadRepository) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*journal.ReadModel, error) {
	return r.get(ctx, `
		SELECT id, tenant_id, number, status, entry_type, description,
			entry_date, fiscal_period, total_debit, total_credit, lines,
			posted_by, posted_at, reversing_entry_id, version, updated_at
		FROM journal_read
		WHERE tenant_id = $1 AND number = $2
	`, tenantID, number)
}

func (r *JournalReadRepository) ListByPeriod(ctx context.Context, tenantID uuid.UUID, fiscalPeriod string, limit, offset int) ([]*journal.ReadModel, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, number, status, entry_type, description,
			entry_date, fiscal_period, total_debit, total_credit, lines,
			posted_by, posted_at, reversing_entry_id, version, updated_at
		FROM journal_read
		WHERE tenant_id = $1 AND fiscal_period = $2
		ORDER BY entry_date ASC, number ASC
		LIMIT $3 OFFSET $4
	`, tenantID, fiscalPeriod, limit, offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list journal entries").WithCause(err)
	}
	defer rows.Close()

	var models []*journal.ReadModel
	for rows.Next() {
		m, err := scanJournalRead(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

func (r *JournalReadRepository) ListByStatus(ctx context.Context, tenantID uuid.UUID, status journal.Status, limit, offset int) ([]*journal.ReadModel, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, number, status, entry_type, description,
			entry_date, fiscal_period, total_debit, total_credit, lines,
			posted_by, posted_at, reversing_entry_id, version, updated_at
		FROM journal_read
		WHERE tenant_id = $1 AND status = $2
		ORDER BY entry_date DESC, number DESC
		LIMIT $3 OFFSET $4
	`, tenantID, status.String(), limit, offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list journal entries").WithCause(err)
	}
	defer rows.Close()

	var models []*journal.ReadModel
	for rows.Next() {
		m, err := scanJournalRead(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

func (r *JournalReadRepository) get(ctx context.Context, query string, args ...any) (*journal.ReadModel, error) {
	row := r.db.QueryRow(ctx, query, args...)
	m, err := scanJournalRead(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFoundError("journal entry")
		}
		return nil, err
	}
	return m, nil
}

func scanJournalRead(row pgx.Row) (*journal.ReadModel, error) {
	var m journal.ReadModel
	var lines []byte
	err := row.Scan(&m.ID, &m.TenantID, &m.Number, &m.Status, &m.EntryType, &m.Description,
		&m.EntryDate, &m.FiscalPeriod, &m.TotalDebit, &m.TotalCredit, &lines,
		&m.PostedBy, &m.PostedAt, &m.ReversingEntryID, &m.Version, &m.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, errors.NewInternalError("failed to scan journal read model").WithCause(err)
	}

	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &m.Lines); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal journal lines").WithCause(err)
		}
	}
	return &m, nil
}

var _ journal.ReadRepository = (*JournalReadRepository)(nil)
