package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
)

// transactionCompletedEvent is the wire payload emitted when a transaction
// reaches COMPLETED.
type transactionCompletedEvent struct {
	TransactionID     string          `json:"transaction_id"`
	SenderID          string          `json:"sender_id"`
	RecipientID       string          `json:"recipient_id"`
	Kind              string          `json:"kind"`
	SourceAmount      decimal.Decimal `json:"source_amount"`
	SettledAmount     decimal.Decimal `json:"settled_amount"`
	ExternalTimestamp string          `json:"external_timestamp,omitempty"`
	CompletedAt       time.Time       `json:"completed_at"`
}

// Publisher emits transaction events to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Kafka-backed event publisher.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

var _ portssvc.TransactionEventPublisher = (*Publisher)(nil)

// PublishTransactionCompleted emits an event for a completed transaction.
// Messages are keyed by transaction ID so replays of the same transaction
// land on the same partition.
func (p *Publisher) PublishTransactionCompleted(ctx context.Context, txn domain.Transaction) error {
	event := transactionCompletedEvent{
		TransactionID:     txn.TransactionID,
		SenderID:          txn.SenderID,
		RecipientID:       txn.RecipientID,
		Kind:              string(txn.Kind),
		SourceAmount:      txn.SourceAmount,
		ExternalTimestamp: txn.ExternalTimestamp,
		CompletedAt:       txn.LastUpdatedAt,
	}
	if txn.SettledAmount != nil {
		event.SettledAmount = *txn.SettledAmount
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(txn.TransactionID),
		Value: data,
	})
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
