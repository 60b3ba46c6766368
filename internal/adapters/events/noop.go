package events

import (
	"context"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
)

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

var _ portssvc.TransactionEventPublisher = (*NoopPublisher)(nil)

func (NoopPublisher) PublishTransactionCompleted(ctx context.Context, txn domain.Transaction) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
