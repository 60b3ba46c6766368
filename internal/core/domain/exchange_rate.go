package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a conversion multiplier for an ordered currency pair.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"` // Primary Key (UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"` // Positive multiplier
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}
