package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
)

// RateProviderSvc supplies conversion multipliers for ordered currency pairs.
// Any provider honoring this contract is substitutable for the built-in
// Postgres-backed table.
type RateProviderSvc interface {
	// Rate returns the multiplier converting fromCurrency into toCurrency.
	// Returns apperrors.ErrUnsupportedCurrencyPair when no rate is registered
	// for the ordered pair.
	Rate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error)

	// ListRates retrieves every registered directional rate.
	ListRates(ctx context.Context) ([]domain.ExchangeRate, error)
}
