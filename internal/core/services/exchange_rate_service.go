package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/peerpay-app/peerpay_backend/internal/apperrors"
	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portsrepo "github.com/peerpay-app/peerpay_backend/internal/core/ports/repositories"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
)

// exchangeRateService provides conversion rates backed by the exchange_rates
// table. Rates are directional: the GBP->USD and USD->GBP rows are registered
// independently and are not reciprocals of each other.
type exchangeRateService struct {
	rateRepo portsrepo.ExchangeRateRepository
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepository) portssvc.RateProviderSvc {
	return &exchangeRateService{rateRepo: rateRepo}
}

var _ portssvc.RateProviderSvc = (*exchangeRateService)(nil)

// Rate returns the multiplier converting fromCurrency into toCurrency.
func (s *exchangeRateService) Rate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	fromCurrency = strings.ToUpper(fromCurrency)
	toCurrency = strings.ToUpper(toCurrency)
	if len(fromCurrency) != 3 || len(toCurrency) != 3 {
		return decimal.Zero, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	if fromCurrency == toCurrency {
		return decimal.NewFromInt(1), nil
	}

	rate, err := s.rateRepo.FindExchangeRate(ctx, fromCurrency, toCurrency)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: %s->%s", apperrors.ErrUnsupportedCurrencyPair, fromCurrency, toCurrency)
		}
		return decimal.Zero, fmt.Errorf("failed to get exchange rate: %w", err)
	}

	return rate.Rate, nil
}

// ListRates returns every registered directional rate.
func (s *exchangeRateService) ListRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	return s.rateRepo.ListExchangeRates(ctx)
}
