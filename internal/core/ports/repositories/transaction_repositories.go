package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for transaction records.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccountID retrieves transactions where the account is
	// sender or recipient, newest first.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error)

	// ListPendingRequestsForPayer retrieves pending payment requests addressed
	// to the given account.
	ListPendingRequestsForPayer(ctx context.Context, payerAccountID string) ([]domain.Transaction, error)

	// ListAllTransactions retrieves all transactions, newest first.
	ListAllTransactions(ctx context.Context, limit, offset int) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction records.
type TransactionWriter interface {
	// SaveTransaction persists a new transaction record outside any
	// balance-moving transaction (used for pending requests).
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionTransactionSupport defines tx-scoped operations used by the
// ledger's atomic units of work.
type TransactionTransactionSupport interface {
	// FindTransactionByIDForUpdate selects a transaction row and locks it
	// within the given database transaction. Lock contention surfaces as
	// apperrors.ErrBusy.
	FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error)

	// SaveTransactionInTx inserts a transaction record within the given
	// database transaction.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// UpdateTransactionStatusInTx moves a transaction to a terminal status
	// within the given database transaction, optionally setting the settled
	// amount.
	UpdateTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.TransactionStatus, settledAmount *decimal.Decimal, userID string, now time.Time) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionTransactionSupport
}

// TransactionRepositoryWithTx extends the facade with transaction management.
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
