package repositories

// RepositoryProvider bundles all repositories for dependency injection.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryFacade
	TransactionRepo  TransactionRepositoryWithTx
	CurrencyRepo     CurrencyRepository
	ExchangeRateRepo ExchangeRateRepository
	UserRepo         UserRepositoryFacade
}
