package services

import (
	"context"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountSvcFacade defines account management operations.
type AccountSvcFacade interface {
	// CreateAccount creates the balance-holding account for a user with the
	// given opening balance.
	CreateAccount(ctx context.Context, userID, currencyCode string, openingBalance decimal.Decimal, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves an account by its identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByUserID retrieves the account owned by the given user.
	GetAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)
}
