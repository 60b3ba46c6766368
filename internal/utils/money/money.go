package money

import "github.com/shopspring/decimal"

// Places is the number of fraction digits every monetary amount carries.
const Places = 2

// RoundHalfUp rounds d to two fraction digits with half-up semantics
// (0.005 rounds away to 0.01). This is the money-handling convention used
// throughout the ledger; banker's rounding is deliberately not used.
func RoundHalfUp(d decimal.Decimal) decimal.Decimal {
	// decimal.Round rounds half away from zero, which is half-up for the
	// non-negative amounts the ledger deals in.
	return d.Round(Places)
}
