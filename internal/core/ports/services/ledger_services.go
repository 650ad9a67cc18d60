package services

import (
	"context"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
)

// LedgerReaderSvc defines read operations for ledger data
type LedgerReaderSvc interface {
	// GetLedgerByID retrieves a specific ledger by its unique identifier.
	GetLedgerByID(ctx context.Context, companyID string, ledgerID string, userID string) (*domain.Ledger, error)

	// GetLedgerByName retrieves a ledger by name within a company. The lookup is case-insensitive.
	GetLedgerByName(ctx context.Context, companyID string, name string, userID string) (*domain.Ledger, error)

	// GetLedgersByIDs retrieves multiple ledgers by their IDs.
	GetLedgersByIDs(ctx context.Context, companyID string, ledgerIDs []string, userID string) (map[string]domain.Ledger, error)

	// ListLedgers retrieves a paginated list of ledgers for a given company.
	ListLedgers(ctx context.Context, companyID string, group *domain.LedgerGroup, limit int, offset int, userID string) ([]domain.Ledger, error)
}

// LedgerWriterSvc defines write operations for ledger data
type LedgerWriterSvc interface {
	// CreateLedger persists a new ledger.
	CreateLedger(ctx context.Context, companyID string, req dto.CreateLedgerRequest, userID string) (*domain.Ledger, error)

	// UpdateLedger updates an existing ledger's details.
	UpdateLedger(ctx context.Context, companyID string, ledgerID string, req dto.UpdateLedgerRequest, userID string) (*domain.Ledger, error)

	// DeactivateLedger marks a ledger as inactive.
	DeactivateLedger(ctx context.Context, companyID string, ledgerID string, userID string) error
}

// LedgerSvcFacade combines all ledger-related service interfaces
// This is a facade for clients that need access to all operations
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
