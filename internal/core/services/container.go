package services

import (
	portsrepo "github.com/peerpay-app/peerpay_backend/internal/core/ports/repositories"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
	"github.com/peerpay-app/peerpay_backend/internal/middleware"
)

// Container holds all the services and manages their dependencies.
type Container struct {
	Ledger   portssvc.LedgerSvcFacade
	Account  portssvc.AccountSvcFacade
	Currency portssvc.CurrencySvcFacade
	Rate     portssvc.RateProviderSvc
	User     portssvc.UserSvcFacade
}

// NewContainer creates a new service container with properly initialized
// dependencies. clockSvc, publisher and metrics may be nil.
func NewContainer(
	repos *portsrepo.RepositoryProvider,
	clockSvc portssvc.ClockSourceSvc,
	publisher portssvc.TransactionEventPublisher,
	metrics *middleware.TransferMetrics,
) *Container {
	container := &Container{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.Rate = NewExchangeRateService(repos.ExchangeRateRepo)
	container.Account = NewAccountService(repos.AccountRepo, repos.CurrencyRepo)

	container.Ledger = NewLedgerService(
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.UserRepo,
		container.Rate,
		clockSvc,
		publisher,
		metrics,
	)

	container.User = NewUserService(repos.UserRepo, container.Account, container.Ledger)

	return container
}
