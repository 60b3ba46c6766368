package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/peerpay-app/peerpay_backend/internal/apperrors"
	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portsrepo "github.com/peerpay-app/peerpay_backend/internal/core/ports/repositories"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
	"github.com/peerpay-app/peerpay_backend/internal/middleware"
	"github.com/peerpay-app/peerpay_backend/internal/utils/money"
)

// accountService provides account management operations. Each user holds
// exactly one account, denominated in one supported currency.
type accountService struct {
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyRepository
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, currencyRepo portsrepo.CurrencyRepository) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates the balance-holding account for a user.
func (s *accountService) CreateAccount(ctx context.Context, userID, currencyCode string, openingBalance decimal.Decimal, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if openingBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
	}
	if !domain.IsSupportedCurrency(currencyCode) {
		return nil, fmt.Errorf("%w: unsupported currency code %q", apperrors.ErrValidation, currencyCode)
	}

	// The currency must exist in the reference table, not just the code list.
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode); err != nil {
		return nil, fmt.Errorf("failed to validate currency %q: %w", currencyCode, err)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		UserID:       userID,
		CurrencyCode: currencyCode,
		Balance:      money.RoundHalfUp(openingBalance),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("currency_code", currencyCode))
	return &account, nil
}

// GetAccountByID retrieves an account by its identifier.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByUserID retrieves the account owned by the given user.
func (s *accountService) GetAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByUserID(ctx, userID)
}
