package services

import (
	"context"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
)

// TransactionEventPublisher emits domain events after transactions commit.
// Publishing is best-effort; failures are logged, never propagated to the
// caller of a ledger operation.
type TransactionEventPublisher interface {
	// PublishTransactionCompleted emits an event for a completed transaction.
	PublishTransactionCompleted(ctx context.Context, txn domain.Transaction) error

	// Close releases the underlying transport.
	Close() error
}
