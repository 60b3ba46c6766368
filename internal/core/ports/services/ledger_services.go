package services

import (
	"context"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	"github.com/peerpay-app/peerpay_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerTransferSvc defines the balance-moving operations of the ledger core.
// Each call executes as a single atomic unit of work: either every mutation
// (debit, credit, transaction record) applies, or none do.
type LedgerTransferSvc interface {
	// MakePayment moves funds from the sender's account to the recipient's,
	// converting currency when the accounts differ. Returns the created
	// transaction with status COMPLETED.
	MakePayment(ctx context.Context, senderAccountID, recipientAccountID string, amount decimal.Decimal) (*domain.Transaction, error)

	// RequestPayment records a pending payment request from the requester to
	// the payer. No funds move until the payer resolves the request. The
	// requested amount is denominated in the payer's currency.
	RequestPayment(ctx context.Context, requesterAccountID, payerAccountID string, amount decimal.Decimal) (*domain.Transaction, error)

	// ResolveRequest applies the payer's accept/reject decision to a pending
	// request, exactly once. Accepting a request the payer can no longer
	// afford transitions it to REJECTED instead of failing the call.
	ResolveRequest(ctx context.Context, transactionID, actingAccountID string, decision domain.ResolveDecision) (*domain.Transaction, error)
}

// LedgerConverterSvc defines the pure conversion operation.
type LedgerConverterSvc interface {
	// Convert converts an amount between two currencies, rounded half-up to
	// two fraction digits. A same-currency conversion skips the rate provider
	// and only applies the rounding.
	Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error)
}

// LedgerReaderSvc defines read operations over transaction history.
type LedgerReaderSvc interface {
	// GetTransactionByID retrieves a single transaction.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsForAccount retrieves sent and received transactions for
	// an account, newest first.
	ListTransactionsForAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) ([]domain.Transaction, error)

	// ListPendingRequests retrieves pending payment requests addressed to the
	// given payer account.
	ListPendingRequests(ctx context.Context, payerAccountID string) ([]domain.Transaction, error)

	// ListAllTransactions retrieves every transaction; restricted to admins.
	ListAllTransactions(ctx context.Context, actingUserID string, params dto.ListTransactionsParams) ([]domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerTransferSvc
	LedgerConverterSvc
	LedgerReaderSvc
}
