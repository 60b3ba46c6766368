package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/peerpay-app/peerpay_backend/internal/apperrors"
	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portsrepo "github.com/peerpay-app/peerpay_backend/internal/core/ports/repositories"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
	"github.com/peerpay-app/peerpay_backend/internal/dto"
	"github.com/peerpay-app/peerpay_backend/internal/middleware"
	"github.com/peerpay-app/peerpay_backend/internal/utils/money"
)

// ledgerService provides the core funds-transfer operations: direct payments,
// payment requests, request resolution and currency conversion.
type ledgerService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryWithTx
	userRepo    portsrepo.UserRepositoryFacade
	rateSvc     portssvc.RateProviderSvc
	clockSvc    portssvc.ClockSourceSvc
	publisher   portssvc.TransactionEventPublisher
	metrics     *middleware.TransferMetrics
}

// NewLedgerService creates a new ledger service. clockSvc, publisher and
// metrics are optional; a nil value disables the corresponding concern.
func NewLedgerService(
	accountRepo portsrepo.AccountRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryWithTx,
	userRepo portsrepo.UserRepositoryFacade,
	rateSvc portssvc.RateProviderSvc,
	clockSvc portssvc.ClockSourceSvc,
	publisher portssvc.TransactionEventPublisher,
	metrics *middleware.TransferMetrics,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		userRepo:    userRepo,
		rateSvc:     rateSvc,
		clockSvc:    clockSvc,
		publisher:   publisher,
		metrics:     metrics,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// clockTimeout bounds the best-effort call to the external clock service.
const clockTimeout = 2 * time.Second

// Convert converts an amount between two currencies, rounding the result
// half-up to two fraction digits. Same-currency conversions skip the rate
// provider entirely; the amount still passes through the half-up rounding so
// every value leaving the ledger carries exactly two fraction digits.
func (s *ledgerService) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	if fromCurrency == toCurrency {
		return money.RoundHalfUp(amount), nil
	}

	rate, err := s.rateSvc.Rate(ctx, fromCurrency, toCurrency)
	if err != nil {
		return decimal.Zero, err
	}

	return money.RoundHalfUp(amount.Mul(rate)), nil
}

// MakePayment debits the sender and credits the recipient in a single atomic
// unit. The amount is denominated in the sender's currency; the recipient is
// credited the converted amount.
func (s *ledgerService) MakePayment(ctx context.Context, senderAccountID, recipientAccountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	defer s.observeLatency(time.Now())

	sender, recipient, err := s.loadTransferParties(ctx, senderAccountID, recipientAccountID, amount)
	if err != nil {
		s.recordOutcome(domain.KindPayment, err)
		return nil, err
	}

	// Pre-check outside the lock; the authoritative check happens under it.
	if sender.Balance.LessThan(amount) {
		s.recordOutcome(domain.KindPayment, apperrors.ErrInsufficientFunds)
		return nil, fmt.Errorf("%w: account %s cannot cover %s", apperrors.ErrInsufficientFunds, senderAccountID, amount.String())
	}

	settled, err := s.Convert(ctx, amount, sender.CurrencyCode, recipient.CurrencyCode)
	if err != nil {
		s.recordOutcome(domain.KindPayment, err)
		return nil, err
	}

	externalTimestamp := s.fetchExternalTimestamp(ctx)

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:     uuid.NewString(),
		SenderID:          sender.AccountID,
		RecipientID:       recipient.AccountID,
		Kind:              domain.KindPayment,
		SourceAmount:      money.RoundHalfUp(amount),
		SettledAmount:     &settled,
		Status:            domain.StatusCompleted,
		ExternalTimestamp: externalTimestamp,
		CreatedAt:         now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     sender.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: sender.UserID,
		},
	}

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		locked, lockErr := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{sender.AccountID, recipient.AccountID})
		if lockErr != nil {
			return lockErr
		}

		lockedSender, found := locked[sender.AccountID]
		if !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, sender.AccountID)
		}
		if _, found := locked[recipient.AccountID]; !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, recipient.AccountID)
		}

		// Authoritative balance check on the locked row.
		if lockedSender.Balance.LessThan(txn.SourceAmount) {
			return fmt.Errorf("%w: account %s cannot cover %s", apperrors.ErrInsufficientFunds, sender.AccountID, txn.SourceAmount.String())
		}

		changes := map[string]decimal.Decimal{
			sender.AccountID:    txn.SourceAmount.Neg(),
			recipient.AccountID: settled,
		}
		if applyErr := s.accountRepo.ApplyBalanceChangesInTx(ctx, tx, changes, sender.UserID, now); applyErr != nil {
			return applyErr
		}

		return s.txnRepo.SaveTransactionInTx(ctx, tx, txn)
	})
	if err != nil {
		logger.Error("Failed to execute payment", slog.String("sender_account_id", senderAccountID), slog.String("recipient_account_id", recipientAccountID), slog.String("error", err.Error()))
		s.recordOutcome(domain.KindPayment, err)
		return nil, err
	}

	s.recordOutcome(domain.KindPayment, nil)
	s.publishCompleted(ctx, txn)
	logger.Info("Payment completed", slog.String("transaction_id", txn.TransactionID), slog.String("source_amount", txn.SourceAmount.String()), slog.String("settled_amount", settled.String()))
	return &txn, nil
}

// RequestPayment records a pending payment request. The requester asks the
// payer for funds; the requested amount is denominated in the payer's
// currency. No balance changes until the payer resolves the request.
func (s *ledgerService) RequestPayment(ctx context.Context, requesterAccountID, payerAccountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	requester, payer, err := s.loadTransferParties(ctx, requesterAccountID, payerAccountID, amount)
	if err != nil {
		return nil, err
	}

	// SettledAmount is fixed at request time: what the requester will receive
	// in their own currency if the payer accepts.
	settled, err := s.Convert(ctx, amount, payer.CurrencyCode, requester.CurrencyCode)
	if err != nil {
		return nil, err
	}

	externalTimestamp := s.fetchExternalTimestamp(ctx)

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:     uuid.NewString(),
		SenderID:          requester.AccountID,
		RecipientID:       payer.AccountID,
		Kind:              domain.KindRequest,
		SourceAmount:      money.RoundHalfUp(amount),
		SettledAmount:     &settled,
		Status:            domain.StatusPending,
		ExternalTimestamp: externalTimestamp,
		CreatedAt:         now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requester.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requester.UserID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to save payment request", slog.String("requester_account_id", requesterAccountID), slog.String("payer_account_id", payerAccountID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Payment request recorded", slog.String("transaction_id", txn.TransactionID), slog.String("source_amount", txn.SourceAmount.String()))
	return &txn, nil
}

// ResolveRequest applies the payer's decision to a pending payment request.
// Only the payer (the request's recipient) may resolve it, and only once.
// Accepting a request the payer can no longer afford rejects the request
// instead of failing the call.
func (s *ledgerService) ResolveRequest(ctx context.Context, transactionID, actingAccountID string, decision domain.ResolveDecision) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	defer s.observeLatency(time.Now())

	if decision != domain.DecisionAccept && decision != domain.DecisionReject {
		return nil, fmt.Errorf("%w: unknown decision %q", apperrors.ErrValidation, decision)
	}

	var resolved domain.Transaction
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		txn, lockErr := s.txnRepo.FindTransactionByIDForUpdate(ctx, tx, transactionID)
		if lockErr != nil {
			return lockErr
		}
		if txn.Kind != domain.KindRequest {
			return fmt.Errorf("%w: transaction %s is not a payment request", apperrors.ErrNotFound, transactionID)
		}
		if txn.RecipientID != actingAccountID {
			return fmt.Errorf("%w: only the payer may resolve this request", apperrors.ErrForbidden)
		}
		if txn.IsTerminal() {
			return fmt.Errorf("%w: transaction %s is %s", apperrors.ErrAlreadyResolved, transactionID, txn.Status)
		}

		actingAccount, accErr := s.accountRepo.FindAccountByID(ctx, actingAccountID)
		if accErr != nil {
			return accErr
		}
		actingUserID := actingAccount.UserID

		now := time.Now().UTC()

		if decision == domain.DecisionReject {
			if updErr := s.txnRepo.UpdateTransactionStatusInTx(ctx, tx, transactionID, domain.StatusRejected, nil, actingUserID, now); updErr != nil {
				return updErr
			}
			resolved = *txn
			resolved.Status = domain.StatusRejected
			return nil
		}

		locked, lockErr := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{txn.SenderID, txn.RecipientID})
		if lockErr != nil {
			return lockErr
		}
		payer, found := locked[txn.RecipientID]
		if !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, txn.RecipientID)
		}
		requester, found := locked[txn.SenderID]
		if !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, txn.SenderID)
		}

		// Unaffordable acceptance rejects the request rather than erroring,
		// so a stale balance never leaves the request stuck pending.
		if payer.Balance.LessThan(txn.SourceAmount) {
			if updErr := s.txnRepo.UpdateTransactionStatusInTx(ctx, tx, transactionID, domain.StatusRejected, nil, actingUserID, now); updErr != nil {
				return updErr
			}
			resolved = *txn
			resolved.Status = domain.StatusRejected
			return nil
		}

		settled := s.settledOrRecompute(ctx, txn, payer.CurrencyCode, requester.CurrencyCode)
		if settled == nil {
			return fmt.Errorf("%w: could not determine settled amount for transaction %s", apperrors.ErrInternal, transactionID)
		}

		changes := map[string]decimal.Decimal{
			payer.AccountID:     txn.SourceAmount.Neg(),
			requester.AccountID: *settled,
		}
		if applyErr := s.accountRepo.ApplyBalanceChangesInTx(ctx, tx, changes, payer.UserID, now); applyErr != nil {
			return applyErr
		}
		if updErr := s.txnRepo.UpdateTransactionStatusInTx(ctx, tx, transactionID, domain.StatusCompleted, settled, actingUserID, now); updErr != nil {
			return updErr
		}

		resolved = *txn
		resolved.Status = domain.StatusCompleted
		resolved.SettledAmount = settled
		return nil
	})
	if err != nil {
		logger.Error("Failed to resolve payment request", slog.String("transaction_id", transactionID), slog.String("acting_account_id", actingAccountID), slog.String("error", err.Error()))
		s.recordOutcome(domain.KindRequest, err)
		return nil, err
	}

	s.recordOutcome(domain.KindRequest, nil)
	if resolved.Status == domain.StatusCompleted {
		s.publishCompleted(ctx, resolved)
	}
	logger.Info("Payment request resolved", slog.String("transaction_id", transactionID), slog.String("status", string(resolved.Status)))
	return &resolved, nil
}

// GetTransactionByID retrieves a single transaction.
func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, transactionID)
}

// ListTransactionsForAccount retrieves sent and received transactions for an
// account, newest first.
func (s *ledgerService) ListTransactionsForAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	return s.txnRepo.ListTransactionsByAccountID(ctx, accountID, normalizeLimit(params.Limit), params.Offset)
}

// ListPendingRequests retrieves pending payment requests addressed to the
// given payer account.
func (s *ledgerService) ListPendingRequests(ctx context.Context, payerAccountID string) ([]domain.Transaction, error) {
	return s.txnRepo.ListPendingRequestsForPayer(ctx, payerAccountID)
}

// ListAllTransactions retrieves every transaction; admin only.
func (s *ledgerService) ListAllTransactions(ctx context.Context, actingUserID string, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	actor, err := s.userRepo.FindUserByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: admin privileges required", apperrors.ErrForbidden)
	}
	return s.txnRepo.ListAllTransactions(ctx, normalizeLimit(params.Limit), params.Offset)
}

// loadTransferParties validates the amount, loads both accounts and rejects
// self-transfers. Returned in argument order.
func (s *ledgerService) loadTransferParties(ctx context.Context, firstAccountID, secondAccountID string, amount decimal.Decimal) (*domain.Account, *domain.Account, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if firstAccountID == secondAccountID {
		return nil, nil, fmt.Errorf("%w: account %s", apperrors.ErrSelfTransfer, firstAccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{firstAccountID, secondAccountID})
	if err != nil {
		return nil, nil, err
	}

	first, found := accounts[firstAccountID]
	if !found {
		return nil, nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, firstAccountID)
	}
	second, found := accounts[secondAccountID]
	if !found {
		return nil, nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, secondAccountID)
	}

	return &first, &second, nil
}

// settledOrRecompute returns the settled amount recorded on the request, or
// recomputes it from the current rate when the record predates settlement
// capture. Returns nil when no rate is available.
func (s *ledgerService) settledOrRecompute(ctx context.Context, txn *domain.Transaction, payerCurrency, requesterCurrency string) *decimal.Decimal {
	if txn.SettledAmount != nil {
		return txn.SettledAmount
	}
	settled, err := s.Convert(ctx, txn.SourceAmount, payerCurrency, requesterCurrency)
	if err != nil {
		return nil
	}
	return &settled
}

// fetchExternalTimestamp asks the external clock service for an opaque
// timestamp. Best-effort: failures log and yield an empty string.
func (s *ledgerService) fetchExternalTimestamp(ctx context.Context) string {
	if s.clockSvc == nil {
		return ""
	}

	clockCtx, cancel := context.WithTimeout(ctx, clockTimeout)
	defer cancel()

	ts, err := s.clockSvc.Now(clockCtx)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("External clock service unavailable", slog.String("error", err.Error()))
		return ""
	}
	return ts
}

// publishCompleted emits a completion event. Best-effort: failures log only.
func (s *ledgerService) publishCompleted(ctx context.Context, txn domain.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionCompleted(ctx, txn); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish transaction event", slog.String("transaction_id", txn.TransactionID), slog.String("error", err.Error()))
	}
}

// recordOutcome increments the transfer counter when metrics are wired.
func (s *ledgerService) recordOutcome(kind domain.TransactionKind, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		outcome = "insufficient_funds"
	case errors.Is(err, apperrors.ErrBusy):
		outcome = "busy"
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrSelfTransfer):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	s.metrics.Transfers.WithLabelValues(string(kind), outcome).Inc()
}

// observeLatency records how long a balance-moving operation took.
func (s *ledgerService) observeLatency(start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.Latency.Observe(time.Since(start).Seconds())
}

// withTx runs fn inside a database transaction, rolling back on error.
func (s *ledgerService) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// No-op once the transaction is committed.
		_ = s.txnRepo.Rollback(ctx, tx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
