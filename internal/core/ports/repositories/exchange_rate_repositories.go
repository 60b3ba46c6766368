package repositories

import (
	"context"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
)

// ExchangeRateRepository defines persistence operations for exchange rates.
type ExchangeRateRepository interface {
	// SaveExchangeRate inserts or updates the rate for an ordered currency pair.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// FindExchangeRate retrieves the most recent rate for the ordered pair.
	// Returns apperrors.ErrNotFound when no rate is registered.
	FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves all registered rates.
	ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error)
}
