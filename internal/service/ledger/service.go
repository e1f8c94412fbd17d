package ledger

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hisabkhata/ledger-backend/internal/domain/account"
	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/journal"
	"github.com/hisabkhata/ledger-backend/internal/domain/values"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/telemetry"
	"github.com/hisabkhata/ledger-backend/internal/service"
)

// Service handles journal entry and chart-of-accounts commands. Posting an
// entry also applies each line to its account stream; those are separate
// saves that retry independently of the entry itself.
type Service struct {
	journals journal.Repository
	accounts account.Repository
	reads    journal.ReadRepository
	validate *validator.Validate
	logger   *zap.Logger
}

func NewService(journals journal.Repository, accounts account.Repository, reads journal.ReadRepository, logger *zap.Logger) *Service {
	return &Service{
		journals: journals,
		accounts: accounts,
		reads:    reads,
		validate: validator.New(),
		logger:   logger,
	}
}

// LineRequest is one journal line. Exactly one of Debit/Credit is set.
type LineRequest struct {
	AccountID  uuid.UUID `json:"account_id" validate:"required"`
	Debit      string    `json:"debit,omitempty"`
	Credit     string    `json:"credit,omitempty"`
	CostCenter string    `json:"cost_center,omitempty"`
	ProjectID  string    `json:"project_id,omitempty"`
	TaxCode    string    `json:"tax_code,omitempty"`
}

type CreateEntryRequest struct {
	TenantID    uuid.UUID     `json:"tenant_id" validate:"required"`
	EntryDate   time.Time     `json:"entry_date" validate:"required"`
	EntryType   string        `json:"entry_type" validate:"required"`
	Description string        `json:"description" validate:"required"`
	Currency    string        `json:"currency" validate:"required,oneof=BDT USD EUR GBP"`
	Sequence    int           `json:"sequence" validate:"required,min=1,max=999999"`
	Lines       []LineRequest `json:"lines" validate:"required,min=2,dive"`
}

type ReplaceLinesRequest struct {
	TenantID uuid.UUID     `json:"tenant_id" validate:"required"`
	EntryID  uuid.UUID     `json:"entry_id" validate:"required"`
	Currency string        `json:"currency" validate:"required,oneof=BDT USD EUR GBP"`
	Lines    []LineRequest `json:"lines" validate:"required,min=2,dive"`
}

type PostEntryRequest struct {
	TenantID uuid.UUID `json:"tenant_id" validate:"required"`
	EntryID  uuid.UUID `json:"entry_id" validate:"required"`
	PostedBy uuid.UUID `json:"posted_by" validate:"required"`
}

type ReverseEntryRequest struct {
	TenantID   uuid.UUID `json:"tenant_id" validate:"required"`
	EntryID    uuid.UUID `json:"entry_id" validate:"required"`
	ReversedBy uuid.UUID `json:"reversed_by" validate:"required"`
	Reason     string    `json:"reason" validate:"required"`
	Sequence   int       `json:"sequence" validate:"required,min=1,max=999999"`
}

type CreateAccountRequest struct {
	TenantID uuid.UUID `json:"tenant_id" validate:"required"`
	Code     string    `json:"code" validate:"required"`
	Name     string    `json:"name" validate:"required"`
	Type     string    `json:"type" validate:"required"`
	ParentID uuid.UUID `json:"parent_id,omitempty"`
	Currency string    `json:"currency" validate:"required,oneof=BDT USD EUR GBP"`
}

func (s *Service) parseLines(reqs []LineRequest, currency string) ([]journal.LineInput, error) {
	inputs := make([]journal.LineInput, 0, len(reqs))
	for _, req := range reqs {
		input := journal.LineInput{
			AccountID:  req.AccountID,
			CostCenter: req.CostCenter,
			ProjectID:  req.ProjectID,
			TaxCode:    req.TaxCode,
		}
		if req.Debit != "" {
			debit, err := values.NewMoneyFromString(req.Debit, currency)
			if err != nil {
				return nil, err
			}
			input.Debit = debit
		}
		if req.Credit != "" {
			credit, err := values.NewMoneyFromString(req.Credit, currency)
			if err != nil {
				return nil, err
			}
			input.Credit = credit
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// CreateEntry creates a balanced DRAFT journal entry.
func (s *Service) CreateEntry(ctx context.Context, req CreateEntryRequest) (e *journal.Entry, err error) {
	defer func() { telemetry.RecordCommand("journal", "create", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return nil, errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	entryType, err := journal.ParseType(req.EntryType)
	if err != nil {
		return nil, err
	}
	number, err := values.GenerateJournalNumber(req.EntryDate, req.Sequence)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNumberUnused(ctx, req.TenantID, number); err != nil {
		return nil, err
	}
	inputs, err := s.parseLines(req.Lines, req.Currency)
	if err != nil {
		return nil, err
	}

	e, err = journal.New(req.TenantID, number, req.EntryDate, entryType, req.Description, inputs)
	if err != nil {
		return nil, err
	}
	if err = s.journals.Save(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("journal entry created",
		zap.String("entry_id", e.ID().String()),
		zap.String("number", e.Number().String()),
		zap.String("fiscal_period", e.FiscalPeriod().String()),
		zap.String("total_debit", e.TotalDebit().String()))
	return e, nil
}

// ReplaceLines swaps the line set of a DRAFT entry.
func (s *Service) ReplaceLines(ctx context.Context, req ReplaceLinesRequest) (err error) {
	defer func() { telemetry.RecordCommand("journal", "replace_lines", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	inputs, err := s.parseLines(req.Lines, req.Currency)
	if err != nil {
		return err
	}

	return service.WithRetry(ctx, s.logger, "journal.replace_lines", func(ctx context.Context) error {
		e, err := s.journals.FindByID(ctx, req.TenantID, req.EntryID)
		if err != nil {
			return err
		}
		if err := e.ReplaceLines(inputs); err != nil {
			return err
		}
		return s.journals.Save(ctx, e)
	})
}

// PostEntry posts a DRAFT entry, then applies each line to its account. All
// referenced accounts must be ACTIVE before the entry is posted.
func (s *Service) PostEntry(ctx context.Context, req PostEntryRequest) (err error) {
	defer func() { telemetry.RecordCommand("journal", "post", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	var posted *journal.Entry
	err = service.WithRetry(ctx, s.logger, "journal.post", func(ctx context.Context) error {
		e, err := s.journals.FindByID(ctx, req.TenantID, req.EntryID)
		if err != nil {
			return err
		}
		if err := s.checkAccountsActive(ctx, req.TenantID, e.Lines()); err != nil {
			return err
		}
		if err := e.Post(req.PostedBy); err != nil {
			return err
		}
		if err := s.journals.Save(ctx, e); err != nil {
			return err
		}
		posted = e
		return nil
	})
	if err != nil {
		return err
	}

	if err = s.applyPostings(ctx, req.TenantID, posted); err != nil {
		return err
	}

	s.logger.Info("journal entry posted",
		zap.String("entry_id", req.EntryID.String()),
		zap.String("posted_by", req.PostedBy.String()))
	return nil
}

// ReverseEntry creates and posts a reversing entry with swapped sides, then
// links it back to the original. Original and reversing entry are separate
// streams, saved separately.
func (s *Service) ReverseEntry(ctx context.Context, req ReverseEntryRequest) (reversing *journal.Entry, err error) {
	defer func() { telemetry.RecordCommand("journal", "reverse", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return nil, errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	original, err := s.journals.FindByID(ctx, req.TenantID, req.EntryID)
	if err != nil {
		return nil, err
	}
	if original.Status() != journal.StatusPosted {
		return nil, errors.NewInvariantViolation("NOT_POSTED", "Only POSTED entries can be reversed")
	}

	now := time.Now().UTC()
	number, err := values.GenerateJournalNumber(now, req.Sequence)
	if err != nil {
		return nil, err
	}
	if err = s.ensureNumberUnused(ctx, req.TenantID, number); err != nil {
		return nil, err
	}

	reversing, err = journal.New(req.TenantID, number, now, original.Type(),
		"Reversal of "+original.Number().String()+": "+req.Reason, original.ReversingLines())
	if err != nil {
		return nil, err
	}
	if err = reversing.Post(req.ReversedBy); err != nil {
		return nil, err
	}
	if err = s.journals.Save(ctx, reversing); err != nil {
		return nil, err
	}

	err = service.WithRetry(ctx, s.logger, "journal.mark_reversed", func(ctx context.Context) error {
		e, err := s.journals.FindByID(ctx, req.TenantID, req.EntryID)
		if err != nil {
			return err
		}
		if err := e.MarkReversed(reversing.ID(), req.Reason); err != nil {
			return err
		}
		return s.journals.Save(ctx, e)
	})
	if err != nil {
		return nil, err
	}

	if err = s.applyPostings(ctx, req.TenantID, reversing); err != nil {
		return nil, err
	}

	s.logger.Info("journal entry reversed",
		zap.String("entry_id", req.EntryID.String()),
		zap.String("reversing_entry_id", reversing.ID().String()))
	return reversing, nil
}

func (s *Service) ensureNumberUnused(ctx context.Context, tenantID uuid.UUID, number values.JournalNumber) error {
	existing, err := s.reads.GetByNumber(ctx, tenantID, number.String())
	if err != nil && !errors.IsNotFound(err) {
		return err
	}
	if existing != nil {
		return errors.NewDuplicateError("journal entry", number.String())
	}
	return nil
}

func (s *Service) checkAccountsActive(ctx context.Context, tenantID uuid.UUID, lines []journal.Line) error {
	for _, line := range lines {
		a, err := s.accounts.FindByID(ctx, tenantID, line.AccountID)
		if err != nil {
			return err
		}
		if !a.IsActive() {
			return errors.NewInvariantViolation("ACCOUNT_INACTIVE",
				"account "+a.Code()+" is inactive and cannot take postings")
		}
	}
	return nil
}

func (s *Service) applyPostings(ctx context.Context, tenantID uuid.UUID, e *journal.Entry) error {
	for _, line := range e.Lines() {
		line := line
		err := service.WithRetry(ctx, s.logger, "account.apply_posting", func(ctx context.Context) error {
			a, err := s.accounts.FindByID(ctx, tenantID, line.AccountID)
			if err != nil {
				return err
			}
			if err := a.ApplyPosting(e.ID(), line.ID, line.Debit, line.Credit); err != nil {
				return err
			}
			return s.accounts.Save(ctx, a)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// CancelEntry cancels a DRAFT entry.
func (s *Service) CancelEntry(ctx context.Context, tenantID, entryID uuid.UUID, reason string) (err error) {
	defer func() { telemetry.RecordCommand("journal", "cancel", err) }()

	return service.WithRetry(ctx, s.logger, "journal.cancel", func(ctx context.Context) error {
		e, err := s.journals.FindByID(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if err := e.Cancel(reason); err != nil {
			return err
		}
		return s.journals.Save(ctx, e)
	})
}

// CreateAccount adds an account to the chart.
func (s *Service) CreateAccount(ctx context.Context, req CreateAccountRequest) (a *account.Account, err error) {
	defer func() { telemetry.RecordCommand("account", "create", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return nil, errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	accType, err := account.ParseType(req.Type)
	if err != nil {
		return nil, err
	}
	if req.ParentID != uuid.Nil {
		if _, err = s.accounts.FindByID(ctx, req.TenantID, req.ParentID); err != nil {
			return nil, err
		}
	}

	a, err = account.New(req.TenantID, req.Code, req.Name, accType, req.ParentID, req.Currency)
	if err != nil {
		return nil, err
	}
	if err = s.accounts.Save(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		zap.String("account_id", a.ID().String()),
		zap.String("code", a.Code()),
		zap.String("type", a.AccountType().String()))
	return a, nil
}

// RenameAccount changes an account's display name.
func (s *Service) RenameAccount(ctx context.Context, tenantID, accountID uuid.UUID, newName string) (err error) {
	defer func() { telemetry.RecordCommand("account", "rename", err) }()

	return service.WithRetry(ctx, s.logger, "account.rename", func(ctx context.Context) error {
		a, err := s.accounts.FindByID(ctx, tenantID, accountID)
		if err != nil {
			return err
		}
		if err := a.Rename(newName); err != nil {
			return err
		}
		return s.accounts.Save(ctx, a)
	})
}

// DeactivateAccount stops an account from accepting postings.
func (s *Service) DeactivateAccount(ctx context.Context, tenantID, accountID uuid.UUID, reason string, deactivatedBy uuid.UUID) (err error) {
	defer func() { telemetry.RecordCommand("account", "deactivate", err) }()

	return service.WithRetry(ctx, s.logger, "account.deactivate", func(ctx context.Context) error {
		a, err := s.accounts.FindByID(ctx, tenantID, accountID)
		if err != nil {
			return err
		}
		if err := a.Deactivate(reason, deactivatedBy); err != nil {
			return err
		}
		return s.accounts.Save(ctx, a)
	})
}

// ReactivateAccount reopens an INACTIVE account.
func (s *Service) ReactivateAccount(ctx context.Context, tenantID, accountID uuid.UUID, reactivatedBy uuid.UUID) (err error) {
	defer func() { telemetry.RecordCommand("account", "reactivate", err) }()

	return service.WithRetry(ctx, s.logger, "account.reactivate", func(ctx context.Context) error {
		a, err := s.accounts.FindByID(ctx, tenantID, accountID)
		if err != nil {
			return err
		}
		if err := a.Reactivate(reactivatedBy); err != nil {
			return err
		}
		return s.accounts.Save(ctx, a)
	})
}
