package services

import (
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	portssvc "github.com/FurnBooks/furniture_books_app/internal/core/ports/services"
	"github.com/FurnBooks/furniture_books_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Company service first since every other service authorizes through it
	container.Company = NewCompanyService(repos.CompanyRepo)

	container.Ledger = NewLedgerService(repos.LedgerRepo, container.Company)
	container.Posting = NewPostingService(repos.PostingRepo, repos.LedgerRepo, repos.BillRepo, container.Company)
	container.Bill = NewBillService(repos.BillRepo, container.Company)
	container.Statement = NewStatementService(repos.LedgerRepo, container.Company)
	container.User = NewUserService(repos.UserRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.BillRepo,
		WithReportingCompanyAuthorizer(container.Company))
	container.Token = NewTokenService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LedgerSvcFacade  = (*ledgerService)(nil)
	_ portssvc.PostingSvcFacade = (*postingService)(nil)
	_ portssvc.CompanySvcFacade = (*companyService)(nil)
)
