package mapping

import (
	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	"github.com/peerpay-app/peerpay_backend/internal/models"
)

// ToModelTransaction converts a domain.Transaction to its database model.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		SenderID:          d.SenderID,
		RecipientID:       d.RecipientID,
		Kind:              string(d.Kind),
		SourceAmount:      d.SourceAmount,
		SettledAmount:     d.SettledAmount,
		Status:            string(d.Status),
		ExternalTimestamp: d.ExternalTimestamp,
		CreatedAt:         d.CreatedAt,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a models.Transaction to its domain representation.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		SenderID:          m.SenderID,
		RecipientID:       m.RecipientID,
		Kind:              domain.TransactionKind(m.Kind),
		SourceAmount:      m.SourceAmount,
		SettledAmount:     m.SettledAmount,
		Status:            domain.TransactionStatus(m.Status),
		ExternalTimestamp: m.ExternalTimestamp,
		CreatedAt:         m.CreatedAt,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of transaction models.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		out[i] = ToDomainTransaction(m)
	}
	return out
}
