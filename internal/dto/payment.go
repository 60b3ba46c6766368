package dto

import (
	"time"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MakePaymentRequest defines the data needed to send a direct payment.
// The recipient is addressed by username, as in the payment form.
type MakePaymentRequest struct {
	Recipient string          `json:"recipient" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// RequestPaymentRequest defines the data needed to request a payment from
// another user. The amount is denominated in the payer's currency.
type RequestPaymentRequest struct {
	Payer  string          `json:"payer" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ResolveRequestRequest carries the payer's decision on a pending request.
type ResolveRequestRequest struct {
	Decision domain.ResolveDecision `json:"decision" binding:"required,oneof=ACCEPT REJECT"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID     string                   `json:"transactionID"`
	SenderID          string                   `json:"senderID"`
	RecipientID       string                   `json:"recipientID"`
	Kind              domain.TransactionKind   `json:"kind"`
	SourceAmount      decimal.Decimal          `json:"sourceAmount"`
	SettledAmount     *decimal.Decimal         `json:"settledAmount,omitempty"`
	Status            domain.TransactionStatus `json:"status"`
	ExternalTimestamp string                   `json:"externalTimestamp,omitempty"`
	CreatedAt         time.Time                `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     t.TransactionID,
		SenderID:          t.SenderID,
		RecipientID:       t.RecipientID,
		Kind:              t.Kind,
		SourceAmount:      t.SourceAmount,
		SettledAmount:     t.SettledAmount,
		Status:            t.Status,
		ExternalTimestamp: t.ExternalTimestamp,
		CreatedAt:         t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(ts []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(ts))
	for i := range ts {
		out[i] = ToTransactionResponse(&ts[i])
	}
	return out
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ConversionResponse mirrors the RESTful conversion service's payload.
type ConversionResponse struct {
	FromCurrency    string          `json:"from_currency"`
	ToCurrency      string          `json:"to_currency"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	Rate            decimal.Decimal `json:"rate"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
}
