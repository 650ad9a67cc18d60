package services

import (
	"context"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.TrialBalance, error)

	// GSTSummary generates a period summary of GST on sales and purchases, grouped by rate
	GSTSummary(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.GSTSummary, error)

	// GSTSummaryXLSX renders the GST summary as an Excel workbook
	GSTSummaryXLSX(ctx context.Context, companyID string, from, to time.Time, userID string) ([]byte, error)
}
