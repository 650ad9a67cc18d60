package services

import (
	"context"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
)

// BillReaderSvc defines read operations for bill data
type BillReaderSvc interface {
	// GetBillByID retrieves a bill with its payments and settlement state.
	GetBillByID(ctx context.Context, companyID string, billID string, userID string) (*domain.Bill, error)

	// ListBills retrieves a paginated list of bills with settlement state.
	ListBills(ctx context.Context, companyID string, userID string, params dto.ListBillsParams) (*dto.ListBillsResponse, error)

	// ListOutstandingBills retrieves bills of a kind that are not fully settled,
	// oldest first.
	ListOutstandingBills(ctx context.Context, companyID string, kind domain.BillKind, userID string) ([]domain.Bill, error)
}

// BillSvcFacade combines all bill-related service interfaces
type BillSvcFacade interface {
	BillReaderSvc
}
