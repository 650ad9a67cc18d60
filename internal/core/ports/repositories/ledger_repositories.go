package repositories

import (
	"context"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for ledger data
type LedgerReader interface {
	// FindLedgerByID retrieves a specific ledger by its unique identifier.
	FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error)

	// FindLedgerByName retrieves a ledger by its name within a company.
	// The lookup is case-insensitive.
	FindLedgerByName(ctx context.Context, companyID string, name string) (*domain.Ledger, error)

	// FindLedgersByIDs retrieves multiple ledgers by their IDs.
	FindLedgersByIDs(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error)

	// ListLedgers retrieves a paginated list of ledgers for a given company,
	// optionally filtered by ledger group.
	ListLedgers(ctx context.Context, companyID string, group *domain.LedgerGroup, limit int, offset int) ([]domain.Ledger, error)
}

// LedgerWriter defines write operations for ledger data
type LedgerWriter interface {
	// SaveLedger persists a new ledger.
	SaveLedger(ctx context.Context, ledger domain.Ledger) error

	// UpdateLedger updates an existing ledger's details.
	UpdateLedger(ctx context.Context, ledger domain.Ledger) error

	// DeactivateLedger marks a ledger as inactive.
	DeactivateLedger(ctx context.Context, ledgerID string, userID string, now time.Time) error
}

// LedgerTransactionSupport defines operations that support balance updates inside a transaction
type LedgerTransactionSupport interface {
	// FindLedgersByIDsForUpdate selects ledgers and locks them for update within a transaction.
	FindLedgersByIDsForUpdate(ctx context.Context, tx pgx.Tx, ledgerIDs []string) (map[string]domain.Ledger, error)

	// UpdateLedgerBalancesInTx applies balance deltas for multiple ledgers within a given transaction.
	UpdateLedgerBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// EntryReader defines read operations for ledger entry data
type EntryReader interface {
	// FindEntriesByRefID retrieves all entries that share a reference ID.
	FindEntriesByRefID(ctx context.Context, companyID string, refID string) ([]domain.LedgerEntry, error)

	// FindEntriesByLedger retrieves all entries for a ledger in a date range,
	// ordered by entry date then insertion sequence.
	FindEntriesByLedger(ctx context.Context, companyID string, ledgerID string, from, to time.Time) ([]domain.LedgerEntry, error)

	// ListEntriesByLedger retrieves a paginated list of entries for a ledger using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntriesByLedger(ctx context.Context, companyID string, ledgerID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
// This is a facade for clients that need access to all operations
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
	LedgerTransactionSupport
	EntryReader
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
