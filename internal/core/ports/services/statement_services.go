package services

import (
	"context"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
)

// StatementSvc defines operations for building ledger statements
type StatementSvc interface {
	// GetStatement builds a ledger statement for a date range: the opening
	// balance carried into the range, one line per entry with a running
	// balance, and the closing balance.
	GetStatement(ctx context.Context, companyID string, ledgerID string, from, to time.Time, userID string) (*domain.Statement, error)

	// ListEntries retrieves a paginated list of raw entries for a ledger.
	ListEntries(ctx context.Context, companyID string, ledgerID string, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
