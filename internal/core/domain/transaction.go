package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes direct payments from payment requests.
type TransactionKind string

const (
	KindPayment TransactionKind = "PAYMENT"
	KindRequest TransactionKind = "REQUEST"
)

// TransactionStatus is the lifecycle state of a transaction. Once a
// transaction leaves StatusPending the state is terminal.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusRejected  TransactionStatus = "REJECTED"
)

// ResolveDecision is the payer's decision on a pending payment request.
type ResolveDecision string

const (
	DecisionAccept ResolveDecision = "ACCEPT"
	DecisionReject ResolveDecision = "REJECT"
)

// Transaction records a payment or a payment request between two accounts.
//
// For KindPayment, SourceAmount is denominated in the sender's currency and
// SettledAmount in the recipient's. For KindRequest the acceptance is a
// reversed payment: the recipient (payer) is the one whose funds move, so
// SourceAmount is denominated in the payer's currency and SettledAmount is
// what the original requester receives in their own currency.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	SenderID      string            `json:"senderID"`      // FK -> accounts.account_id
	RecipientID   string            `json:"recipientID"`   // FK -> accounts.account_id
	Kind          TransactionKind   `json:"kind"`
	SourceAmount  decimal.Decimal   `json:"sourceAmount"`
	SettledAmount *decimal.Decimal  `json:"settledAmount,omitempty"` // Nil until conversion resolved; set whenever status becomes COMPLETED
	Status        TransactionStatus `json:"status"`
	// ExternalTimestamp is an opaque value from the remote clock service.
	// Purely informational; empty when the service was unavailable.
	ExternalTimestamp string    `json:"externalTimestamp,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	AuditFields       `json:"-"`
}

// IsTerminal reports whether the transaction has left the pending state.
func (t *Transaction) IsTerminal() bool {
	return t.Status != StatusPending
}

// CanTransitionTo reports whether moving to the target status is a legal
// lifecycle transition. Only PENDING -> COMPLETED/REJECTED is allowed.
func (t *Transaction) CanTransitionTo(target TransactionStatus) bool {
	if t.Status != StatusPending {
		return false
	}
	return target == StatusCompleted || target == StatusRejected
}
