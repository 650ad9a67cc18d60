package repositories

import (
	"context"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data
type ReportingRepository interface {
	// GetTrialBalanceData retrieves per-ledger debit and credit totals as of a specific date
	GetTrialBalanceData(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error)
}
