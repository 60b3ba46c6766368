package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/peerpay-app/peerpay_backend/internal/apperrors"
	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portsrepo "github.com/peerpay-app/peerpay_backend/internal/core/ports/repositories"
	"github.com/peerpay-app/peerpay_backend/internal/models"
	"github.com/peerpay-app/peerpay_backend/internal/utils/mapping"
)

const transactionColumns = `transaction_id, sender_id, recipient_id, kind, source_amount, settled_amount, external_timestamp, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction records.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryWithTx
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.SenderID,
		&m.RecipientID,
		&m.Kind,
		&m.SourceAmount,
		&m.SettledAmount,
		&m.ExternalTimestamp,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()

	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading transaction rows: %w", err)
	}

	return mapping.ToDomainTransactionSlice(ms), nil
}

// SaveTransaction inserts a new transaction record using the pool directly.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.insertTransaction(ctx, r.Pool, txn)
}

// SaveTransactionInTx inserts a new transaction record within tx.
func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	return r.insertTransaction(ctx, tx, txn)
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (r *PgxTransactionRepository) insertTransaction(ctx context.Context, db execer, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := db.Exec(ctx, query,
		m.TransactionID,
		m.SenderID,
		m.RecipientID,
		m.Kind,
		m.SourceAmount,
		m.SettledAmount,
		m.ExternalTimestamp,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isPgErr(err, pgCodeUniqueViolation) {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// FindTransactionByIDForUpdate selects a transaction row and locks it within
// tx. The request row lock serializes concurrent resolutions of the same
// request; NOWAIT bounds the wait and surfaces contention as ErrBusy.
func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 FOR UPDATE NOWAIT;`

	m, err := scanTransaction(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		if isPgErr(err, pgCodeLockNotAvailable) {
			return nil, fmt.Errorf("%w: transaction %s is being resolved concurrently", apperrors.ErrBusy, transactionID)
		}
		return nil, fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// UpdateTransactionStatusInTx moves a transaction to a terminal status within
// tx. The WHERE clause re-checks the pending status so a lost race can never
// overwrite a terminal state.
func (r *PgxTransactionRepository) UpdateTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.TransactionStatus, settledAmount *decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $1, settled_amount = COALESCE($2, settled_amount), last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $5 AND status = $6;
	`
	tag, err := tx.Exec(ctx, query, string(status), settledAmount, now, userID, transactionID, string(domain.StatusPending))
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyResolved, transactionID)
	}
	return nil
}

// ListTransactionsByAccountID retrieves transactions where the account is
// sender or recipient, newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}
	return collectTransactions(rows)
}

// ListPendingRequestsForPayer retrieves pending payment requests addressed to
// the given account, oldest first so the payer resolves them in order.
func (r *PgxTransactionRepository) ListPendingRequestsForPayer(ctx context.Context, payerAccountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE recipient_id = $1 AND kind = $2 AND status = $3
		ORDER BY created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, payerAccountID, string(domain.KindRequest), string(domain.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests for account %s: %w", payerAccountID, err)
	}
	return collectTransactions(rows)
}

// ListAllTransactions retrieves all transactions, newest first.
func (r *PgxTransactionRepository) ListAllTransactions(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return collectTransactions(rows)
}
