package dto

import (
	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID    string          `json:"accountID"`
	UserID       string          `json:"userID"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    acc.AccountID,
		UserID:       acc.UserID,
		CurrencyCode: acc.CurrencyCode,
		Balance:      acc.Balance,
	}
}
