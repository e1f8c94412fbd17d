package projections

import (
	"github.com/hisabkhata/ledger-backend/internal/domain/account"
	"github.com/hisabkhata/ledger-backend/internal/domain/invoice"
	"github.com/hisabkhata/ledger-backend/internal/domain/journal"
	"github.com/hisabkhata/ledger-backend/internal/domain/payment"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
)

// Register wires every projector to its event types on the publisher.
func Register(pub events.Publisher, inv *InvoiceProjector, pay *PaymentProjector, jr *JournalProjector, acc *AccountProjector) {
	for _, t := range []string{
		invoice.EventTypeCreated,
		invoice.EventTypeApproved,
		invoice.EventTypePaymentRecorded,
		invoice.EventTypeFullyPaid,
		invoice.EventTypeCancelled,
	} {
		pub.Subscribe(t, inv.Handle)
	}

	for _, t := range []string{
		payment.EventTypeCreated,
		payment.EventTypeProcessingStarted,
		payment.EventTypeCompleted,
		payment.EventTypeReconciled,
		payment.EventTypeFailed,
		payment.EventTypeReversed,
	} {
		pub.Subscribe(t, pay.Handle)
	}

	for _, t := range []string{
		journal.EventTypeCreated,
		journal.EventTypeLinesReplaced,
		journal.EventTypePosted,
		journal.EventTypeReversed,
		journal.EventTypeCancelled,
	} {
		pub.Subscribe(t, jr.Handle)
	}

	for _, t := range []string{
		account.EventTypeCreated,
		account.EventTypePosted,
		account.EventTypeRenamed,
		account.EventTypeDeactivated,
		account.EventTypeReactivated,
	} {
		pub.Subscribe(t, acc.Handle)
	}
}
