package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	LedgerRepo    LedgerRepositoryFacade
	BillRepo      BillRepositoryFacade
	PostingRepo   PostingRepositoryFacade
	UserRepo      UserRepositoryFacade
	CompanyRepo   CompanyRepositoryFacade
	ReportingRepo ReportingRepository
}
