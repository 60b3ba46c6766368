package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a user's balance-holding account within the core domain.
// This is the primary representation used by services. The balance invariant
// (non-negative, two fraction digits) is enforced by the ledger operations;
// external callers never adjust Balance directly.
type Account struct {
	AccountID    string          `json:"accountID"`    // Primary Key (UUID)
	UserID       string          `json:"userID"`       // FK -> users.user_id (NON-NULL, unique)
	CurrencyCode string          `json:"currencyCode"` // One of the supported currency codes
	Balance      decimal.Decimal `json:"balance"`      // Non-negative, 2 fraction digits
	AuditFields
}
