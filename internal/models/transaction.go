package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a payment or payment request.
type Transaction struct {
	TransactionID     string           `db:"transaction_id"`
	SenderID          string           `db:"sender_id"`
	RecipientID       string           `db:"recipient_id"`
	Kind              string           `db:"kind"`
	SourceAmount      decimal.Decimal  `db:"source_amount"`
	SettledAmount     *decimal.Decimal `db:"settled_amount"` // Nullable
	Status            string           `db:"status"`
	ExternalTimestamp string           `db:"external_timestamp"` // Empty when unavailable
	CreatedAt         time.Time        `db:"created_at"`
	AuditFields
}
