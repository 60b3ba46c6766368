package services

import (
	"context"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
)

// CurrencySvcFacade defines read operations over supported currencies.
type CurrencySvcFacade interface {
	// GetCurrencyByCode retrieves a currency by its 3-letter code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
