package dto

import (
	"github.com/shopspring/decimal"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
)

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
}

// ToCurrencyResponse converts a domain.Currency to its response DTO.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode: c.CurrencyCode,
		Symbol:       c.Symbol,
		Name:         c.Name,
	}
}

// ToCurrencyResponses converts a slice of domain currencies.
func ToCurrencyResponses(cs []domain.Currency) []CurrencyResponse {
	out := make([]CurrencyResponse, len(cs))
	for i := range cs {
		out[i] = ToCurrencyResponse(&cs[i])
	}
	return out
}

// ExchangeRateResponse defines the data returned for a directional rate.
type ExchangeRateResponse struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
}

// ToExchangeRateResponses converts a slice of domain exchange rates.
func ToExchangeRateResponses(rs []domain.ExchangeRate) []ExchangeRateResponse {
	out := make([]ExchangeRateResponse, len(rs))
	for i, r := range rs {
		out[i] = ExchangeRateResponse{
			FromCurrency: r.FromCurrencyCode,
			ToCurrency:   r.ToCurrencyCode,
			Rate:         r.Rate,
		}
	}
	return out
}
