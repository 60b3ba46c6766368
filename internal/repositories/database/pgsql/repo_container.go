package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/peerpay-app/peerpay_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every Postgres-backed repository onto the pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(pool),
		TransactionRepo:  newPgxTransactionRepository(pool),
		CurrencyRepo:     newPgxCurrencyRepository(pool),
		ExchangeRateRepo: newPgxExchangeRateRepository(pool),
		UserRepo:         newPgxUserRepository(pool),
	}
}
