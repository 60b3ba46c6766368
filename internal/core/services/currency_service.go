package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/peerpay-app/peerpay_backend/internal/apperrors"
	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portsrepo "github.com/peerpay-app/peerpay_backend/internal/core/ports/repositories"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
)

// currencyService provides read access to the supported currencies.
type currencyService struct {
	currencyRepo portsrepo.CurrencyRepository
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepository) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// GetCurrencyByCode retrieves a currency by its 3-letter code.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currencyCode = strings.ToUpper(currencyCode)
	if len(currencyCode) != 3 {
		return nil, fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}
	return s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
}

// ListCurrencies retrieves all supported currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.currencyRepo.ListCurrencies(ctx)
}
