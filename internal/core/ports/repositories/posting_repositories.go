package repositories

import (
	"context"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingWriter defines write operations that persist a balanced set of
// ledger entries together with the documents that produced them.
type PostingWriter interface {
	// SavePosting persists the entries, the optional bill, the optional payment,
	// and the resulting balance changes within a single database transaction.
	SavePosting(ctx context.Context, entries []domain.LedgerEntry, bill *domain.Bill, payment *domain.Payment, balanceChanges map[string]decimal.Decimal) error
}

// PostingRepositoryFacade combines all posting-related repository interfaces
type PostingRepositoryFacade interface {
	PostingWriter
}

// PostingRepositoryWithTx extends PostingRepositoryFacade with transaction capabilities
type PostingRepositoryWithTx interface {
	PostingRepositoryFacade
	TransactionManager
}
