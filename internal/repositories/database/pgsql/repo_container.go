package pgsql

import (
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	ledgerRepo := newPgxLedgerRepository(dbPool)
	billRepo := newPgxBillRepository(dbPool)
	postingRepo := newPgxPostingRepository(dbPool, ledgerRepo)
	userRepo := newPgxUserRepository(dbPool)
	companyRepo := newPgxCompanyRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		LedgerRepo:    ledgerRepo,
		BillRepo:      billRepo,
		PostingRepo:   postingRepo,
		UserRepo:      userRepo,
		CompanyRepo:   companyRepo,
		ReportingRepo: reportingRepo,
	}
}
