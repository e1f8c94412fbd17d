package payments

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/invoice"
	"github.com/hisabkhata/ledger-backend/internal/domain/payment"
	"github.com/hisabkhata/ledger-backend/internal/domain/values"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/telemetry"
	"github.com/hisabkhata/ledger-backend/internal/service"
	"github.com/hisabkhata/ledger-backend/internal/service/invoicing"
)

// Service handles payment commands. Completing a payment also records it on
// the invoice; invoice and payment are separate streams, so the two writes
// are separate saves and the invoice side retries on its own.
type Service struct {
	repo      payment.Repository
	invoices  invoice.Repository
	invoicing *invoicing.Service
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewService(repo payment.Repository, invoices invoice.Repository, invoicingSvc *invoicing.Service, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		invoices:  invoices,
		invoicing: invoicingSvc,
		validate:  validator.New(),
		logger:    logger,
	}
}

type CreatePaymentRequest struct {
	TenantID  uuid.UUID `json:"tenant_id" validate:"required"`
	InvoiceID uuid.UUID `json:"invoice_id" validate:"required"`
	Amount    string    `json:"amount" validate:"required"`
	Currency  string    `json:"currency" validate:"required,oneof=BDT USD EUR GBP"`
	Method    string    `json:"method" validate:"required"`

	BankAccountID    string `json:"bank_account_id,omitempty"`
	CheckNumber      string `json:"check_number,omitempty"`
	WalletProvider   string `json:"wallet_provider,omitempty"`
	SubscriberNumber string `json:"subscriber_number,omitempty"`
}

type CompletePaymentRequest struct {
	TenantID             uuid.UUID `json:"tenant_id" validate:"required"`
	PaymentID            uuid.UUID `json:"payment_id" validate:"required"`
	TransactionReference string    `json:"transaction_reference" validate:"required"`
}

type ReconcilePaymentRequest struct {
	TenantID           uuid.UUID `json:"tenant_id" validate:"required"`
	PaymentID          uuid.UUID `json:"payment_id" validate:"required"`
	BankStatementTxnID string    `json:"bank_statement_txn_id" validate:"required"`
	ReconciledBy       uuid.UUID `json:"reconciled_by" validate:"required"`
}

type FailPaymentRequest struct {
	TenantID  uuid.UUID `json:"tenant_id" validate:"required"`
	PaymentID uuid.UUID `json:"payment_id" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
}

type ReversePaymentRequest struct {
	TenantID  uuid.UUID `json:"tenant_id" validate:"required"`
	PaymentID uuid.UUID `json:"payment_id" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
}

// CreatePayment creates a PENDING payment against an existing invoice.
func (s *Service) CreatePayment(ctx context.Context, req CreatePaymentRequest) (p *payment.Payment, err error) {
	defer func() { telemetry.RecordCommand("payment", "create", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return nil, errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	method, err := payment.ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}
	amount, err := values.NewMoneyFromString(req.Amount, req.Currency)
	if err != nil {
		return nil, err
	}

	// the invoice must exist before money is taken against it
	if _, err = s.invoices.FindByID(ctx, req.TenantID, req.InvoiceID); err != nil {
		return nil, err
	}

	p, err = payment.New(req.TenantID, req.InvoiceID, amount, method, payment.MethodDetails{
		BankAccountID:    req.BankAccountID,
		CheckNumber:      req.CheckNumber,
		WalletProvider:   req.WalletProvider,
		SubscriberNumber: req.SubscriberNumber,
	})
	if err != nil {
		return nil, err
	}

	if err = s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("payment created",
		zap.String("payment_id", p.ID().String()),
		zap.String("invoice_id", req.InvoiceID.String()),
		zap.String("amount", amount.String()),
		zap.String("method", method.String()))
	return p, nil
}

// StartProcessing moves a PENDING mobile wallet payment to PROCESSING.
func (s *Service) StartProcessing(ctx context.Context, tenantID, paymentID uuid.UUID) (err error) {
	defer func() { telemetry.RecordCommand("payment", "start_processing", err) }()

	return service.WithRetry(ctx, s.logger, "payment.start_processing", func(ctx context.Context) error {
		p, err := s.repo.FindByID(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		if err := p.StartProcessing(); err != nil {
			return err
		}
		return s.repo.Save(ctx, p)
	})
}

// CompletePayment marks the payment COMPLETED and then records it on the
// invoice. A conflict on the invoice stream does not roll the payment back.
func (s *Service) CompletePayment(ctx context.Context, req CompletePaymentRequest) (err error) {
	defer func() { telemetry.RecordCommand("payment", "complete", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	var completed *payment.Payment
	err = service.WithRetry(ctx, s.logger, "payment.complete", func(ctx context.Context) error {
		p, err := s.repo.FindByID(ctx, req.TenantID, req.PaymentID)
		if err != nil {
			return err
		}
		if err := p.Complete(req.TransactionReference); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, p); err != nil {
			return err
		}
		completed = p
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("payment completed",
		zap.String("payment_id", req.PaymentID.String()),
		zap.String("transaction_ref", req.TransactionReference))

	return s.invoicing.RecordInvoicePayment(ctx, req.TenantID, completed.InvoiceID(), completed.ID(), completed.Amount())
}

// ReconcilePayment matches a COMPLETED payment against a bank statement line.
func (s *Service) ReconcilePayment(ctx context.Context, req ReconcilePaymentRequest) (err error) {
	defer func() { telemetry.RecordCommand("payment", "reconcile", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	return service.WithRetry(ctx, s.logger, "payment.reconcile", func(ctx context.Context) error {
		p, err := s.repo.FindByID(ctx, req.TenantID, req.PaymentID)
		if err != nil {
			return err
		}
		if err := p.Reconcile(req.BankStatementTxnID, req.ReconciledBy); err != nil {
			return err
		}
		return s.repo.Save(ctx, p)
	})
}

// FailPayment marks a PENDING or PROCESSING payment FAILED.
func (s *Service) FailPayment(ctx context.Context, req FailPaymentRequest) (err error) {
	defer func() { telemetry.RecordCommand("payment", "fail", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	return service.WithRetry(ctx, s.logger, "payment.fail", func(ctx context.Context) error {
		p, err := s.repo.FindByID(ctx, req.TenantID, req.PaymentID)
		if err != nil {
			return err
		}
		if err := p.Fail(req.Reason); err != nil {
			return err
		}
		return s.repo.Save(ctx, p)
	})
}

// ReversePayment reverses a COMPLETED or RECONCILED payment.
func (s *Service) ReversePayment(ctx context.Context, req ReversePaymentRequest) (err error) {
	defer func() { telemetry.RecordCommand("payment", "reverse", err) }()

	if verr := s.validate.Struct(req); verr != nil {
		return errors.NewValidationError("INVALID_REQUEST", verr.Error())
	}

	return service.WithRetry(ctx, s.logger, "payment.reverse", func(ctx context.Context) error {
		p, err := s.repo.FindByID(ctx, req.TenantID, req.PaymentID)
		if err != nil {
			return err
		}
		if err := p.Reverse(req.Reason); err != nil {
			return err
		}
		return s.repo.Save(ctx, p)
	})
}
