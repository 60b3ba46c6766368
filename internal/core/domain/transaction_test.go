package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
)

func TestTransaction_IsTerminal(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.TransactionStatus
		terminal bool
	}{
		{"pending is not terminal", domain.StatusPending, false},
		{"completed is terminal", domain.StatusCompleted, true},
		{"rejected is terminal", domain.StatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.Transaction{Status: tt.status}
			assert.Equal(t, tt.terminal, txn.IsTerminal())
		})
	}
}

func TestTransaction_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.TransactionStatus
		to      domain.TransactionStatus
		allowed bool
	}{
		{"pending to completed", domain.StatusPending, domain.StatusCompleted, true},
		{"pending to rejected", domain.StatusPending, domain.StatusRejected, true},
		{"pending to pending", domain.StatusPending, domain.StatusPending, false},
		{"completed to rejected", domain.StatusCompleted, domain.StatusRejected, false},
		{"rejected to completed", domain.StatusRejected, domain.StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.Transaction{Status: tt.from}
			assert.Equal(t, tt.allowed, txn.CanTransitionTo(tt.to))
		})
	}
}
