package repositories

import (
	"context"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
)

// BillReader defines read operations for bill data
type BillReader interface {
	// FindBillByID retrieves a specific bill, including its payments, by its unique identifier.
	FindBillByID(ctx context.Context, companyID string, billID string) (*domain.Bill, error)

	// FindBillByNumber retrieves a bill by its document number within a company.
	FindBillByNumber(ctx context.Context, companyID string, kind domain.BillKind, billNumber string) (*domain.Bill, error)

	// ListBills retrieves a paginated list of bills for a company, optionally
	// filtered by kind and party ledger. Payments are included on each bill.
	ListBills(ctx context.Context, companyID string, kind *domain.BillKind, partyLedgerID *string, limit int, offset int) ([]domain.Bill, error)

	// FindBillsByPeriod retrieves all bills of a kind dated within a period, with payments.
	FindBillsByPeriod(ctx context.Context, companyID string, kind domain.BillKind, from, to time.Time) ([]domain.Bill, error)
}

// BillRepositoryFacade combines all bill-related repository interfaces
// This is a facade for clients that need access to all operations
type BillRepositoryFacade interface {
	BillReader
}

// BillRepositoryWithTx extends BillRepositoryFacade with transaction capabilities
type BillRepositoryWithTx interface {
	BillRepositoryFacade
	TransactionManager
}
