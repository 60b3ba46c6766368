package domain

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "GBP")
	Symbol       string `json:"symbol"`       // e.g., "£"
	Name         string `json:"name"`         // e.g., "Pound Sterling"
	AuditFields
}

// Supported currency codes. Accounts are denominated in exactly one of these.
const (
	CurrencyGBP = "GBP"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// SupportedCurrencies lists the closed set of currency codes accounts may use.
var SupportedCurrencies = []string{CurrencyGBP, CurrencyUSD, CurrencyEUR}

// IsSupportedCurrency reports whether code is one of the supported currency codes.
func IsSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
