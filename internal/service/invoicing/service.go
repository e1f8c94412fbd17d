package invoicing

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/invoice"
	"github.com/hisabkhata/ledger-backend/internal/domain/values"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/telemetry"
	"github.com/hisabkhata/ledger-backend/internal/service"
)

// Service handles invoice commands. Writes go through the event-sourced
// repository; the read repository serves only the duplicate-number check.
type Service struct {
	repo     invoice.Repository
	reads    invoice.ReadRepository
	vatRate  decimal.Decimal
	validate *validator.Validate
	logger   *zap.Logger
}

func NewService(repo invoice.Repository, reads invoice.ReadRepository, vatRate decimal.Decimal, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		reads:    reads,
		vatRate:  vatRate,
		validate: validator.New(),
		logger:   logger,
	}
}

// LineItemRequest is one invoice line. Amounts travel as decimal strings.
type LineItemRequest struct {
	Description string `json:"description" validate:"required"`
	Quantity    string `json:"quantity" validate:"required"`
	UnitPrice   string `json:"unit_price" validate:"required"`
	TaxCategory string `json:"tax_category" validate:"required,oneof=standard zero_rated exempt"`
}

type CreateInvoiceRequest struct {
	TenantID   uuid.UUID         `json:"tenant_id" validate:"required"`
	VendorID   uuid.UUID         `json:"vendor_id" validate:"required"`
	CustomerID uuid.UUID         `json:"customer_id" validate:"required"`
	IssueDate  time.Time         `json:"issue_date" validate:"required"`
	DueDate    time.Time         `json:"due_date" validate:"required"`
	Currency   string            `json:"currency" validate:"required,oneof=BDT USD EUR GBP"`
	Sequence   int               `json:"sequence" validate:"required,min=1,max=999999"`
	Lines      []LineItemRequest `json:"lines" validate:"required,min=1,dive"`
}

type ApproveInvoiceRequest struct {
	TenantID        uuid.UUID `json:"tenant_id" validate:"required"`
	InvoiceID       uuid.UUID `json:"invoice_id" validate:"required"`
	ApprovedBy      uuid.UUID `json:"approved_by" validate:"required"`
	MushakReference string    `json:"mushak_reference" validate:"required"`
}

type CancelInvoiceRequest struct {
	TenantID    uuid.UUID `json:"tenant_id" validate:"required"`
	InvoiceID   uuid.UUID `json:"invoice_id" validate:"required"`
	CancelledBy uuid.UUID `json:"cancelled_by" validate:"required"`
	Reason      string    `json:"reason" validate:"required"`
}

// CreateInvoice creates a DRAFT invoice after rejecting duplicate numbers.
func (s *Service) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (inv *invoice.Invoice, err error) {
	defer func() { telemetry.RecordCommand("invoice", "create", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return nil, errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	number, err := values.GenerateInvoiceNumber(req.IssueDate, req.Sequence)
	if err != nil {
		return nil, err
	}

	existing, err := s.reads.GetByNumber(ctx, req.TenantID, number.String())
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, errors.NewDuplicateError("invoice", number.String())
	}

	inputs := make([]invoice.LineItemInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		quantity, err := decimal.NewFromString(line.Quantity)
		if err != nil {
			return nil, errors.NewValidationError("INVALID_QUANTITY", "quantity must be a decimal number")
		}
		unitPrice, err := values.NewMoneyFromString(line.UnitPrice, req.Currency)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, invoice.LineItemInput{
			Description: line.Description,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			TaxCategory: invoice.TaxCategory(line.TaxCategory),
		})
	}

	inv, err = invoice.New(req.TenantID, number, req.VendorID, req.CustomerID,
		req.IssueDate, req.DueDate, req.Currency, inputs, s.vatRate)
	if err != nil {
		return nil, err
	}

	if err = s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.String("invoice_id", inv.ID().String()),
		zap.String("number", inv.Number().String()),
		zap.String("grand_total", inv.GrandTotal().String()))
	return inv, nil
}

// ApproveInvoice moves a DRAFT invoice to APPROVED, stamping the Mushak-6.3
// reference required for VAT filing.
func (s *Service) ApproveInvoice(ctx context.Context, req ApproveInvoiceRequest) (err error) {
	defer func() { telemetry.RecordCommand("invoice", "approve", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	err = service.WithRetry(ctx, s.logger, "invoice.approve", func(ctx context.Context) error {
		inv, err := s.repo.FindByID(ctx, req.TenantID, req.InvoiceID)
		if err != nil {
			return err
		}
		if err := inv.Approve(req.ApprovedBy, req.MushakReference); err != nil {
			return err
		}
		return s.repo.Save(ctx, inv)
	})
	if err != nil {
		return err
	}

	s.logger.Info("invoice approved", zap.String("invoice_id", req.InvoiceID.String()))
	return nil
}

// CancelInvoice cancels a DRAFT or APPROVED invoice with a reason.
func (s *Service) CancelInvoice(ctx context.Context, req CancelInvoiceRequest) (err error) {
	defer func() { telemetry.RecordCommand("invoice", "cancel", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	err = service.WithRetry(ctx, s.logger, "invoice.cancel", func(ctx context.Context) error {
		inv, err := s.repo.FindByID(ctx, req.TenantID, req.InvoiceID)
		if err != nil {
			return err
		}
		if err := inv.Cancel(req.Reason, req.CancelledBy); err != nil {
			return err
		}
		return s.repo.Save(ctx, inv)
	})
	if err != nil {
		return err
	}

	s.logger.Info("invoice cancelled",
		zap.String("invoice_id", req.InvoiceID.String()),
		zap.String("reason", req.Reason))
	return nil
}

// RecordInvoicePayment applies a completed payment to its invoice. Called by
// the payments service after the payment's own save commits; this is a
// separate stream write and retries independently.
func (s *Service) RecordInvoicePayment(ctx context.Context, tenantID, invoiceID, paymentID uuid.UUID, amount values.Money) (err error) {
	defer func() { telemetry.RecordCommand("invoice", "record_payment", err) }()

	err = service.WithRetry(ctx, s.logger, "invoice.record_payment", func(ctx context.Context) error {
		inv, err := s.repo.FindByID(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if err := inv.RecordPayment(paymentID, amount); err != nil {
			return err
		}
		return s.repo.Save(ctx, inv)
	})
	if err != nil {
		return err
	}

	s.logger.Info("payment recorded on invoice",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("payment_id", paymentID.String()),
		zap.String("amount", amount.String()))
	return nil
}
