package repositories

import (
	"context"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
)

// CurrencyRepository defines persistence operations for supported currencies.
type CurrencyRepository interface {
	// FindCurrencyByCode retrieves a currency by its 3-letter code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
