package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	portssvc "github.com/FurnBooks/furniture_books_app/internal/core/ports/services"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
	"github.com/FurnBooks/furniture_books_app/internal/middleware"
)

// outstandingPageSize is the fetch page size used when scanning for
// unsettled bills.
const outstandingPageSize = 200

// billService exposes read access to bills with their derived settlement state.
type billService struct {
	billRepo   portsrepo.BillRepositoryFacade
	companySvc portssvc.CompanySvcFacade
}

// NewBillService creates a new BillService.
func NewBillService(billRepo portsrepo.BillRepositoryFacade, companySvc portssvc.CompanySvcFacade) portssvc.BillSvcFacade {
	return &billService{
		billRepo:   billRepo,
		companySvc: companySvc,
	}
}

var _ portssvc.BillSvcFacade = (*billService)(nil)

// GetBillByID retrieves a bill with its payment log. Settlement state is
// derived by callers from the payment log, never read from storage.
func (s *billService) GetBillByID(ctx context.Context, companyID string, billID string, userID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetBillByID", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	bill, err := s.billRepo.FindBillByID(ctx, companyID, billID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find bill by ID", slog.String("error", err.Error()), slog.String("bill_id", billID))
		}
		return nil, err
	}
	return bill, nil
}

// ListBills retrieves a paginated list of bills.
func (s *billService) ListBills(ctx context.Context, companyID string, userID string, params dto.ListBillsParams) (*dto.ListBillsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListBills", "error", err)
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	bills, err := s.billRepo.ListBills(ctx, companyID, params.Kind, params.PartyLedgerID, limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list bills from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve bills: %w", err)
	}

	// Status is derived from the payment log, so it is filtered here rather
	// than in SQL.
	if params.Status != nil {
		filtered := bills[:0]
		for _, b := range bills {
			if b.Settlement().PaymentStatus == *params.Status {
				filtered = append(filtered, b)
			}
		}
		bills = filtered
	}

	return &dto.ListBillsResponse{Bills: dto.ToListBillResponse(bills)}, nil
}

// ListOutstandingBills scans bills of a kind and keeps the ones whose
// derived balance due is above the settlement tolerance, oldest first.
// The repository already orders by bill date.
func (s *billService) ListOutstandingBills(ctx context.Context, companyID string, kind domain.BillKind, userID string) ([]domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListOutstandingBills", "error", err)
		return nil, err
	}

	var outstanding []domain.Bill
	for offset := 0; ; offset += outstandingPageSize {
		page, err := s.billRepo.ListBills(ctx, companyID, &kind, nil, outstandingPageSize, offset)
		if err != nil {
			logger.Error("Failed to scan bills for outstanding balance", "error", err)
			return nil, fmt.Errorf("failed to retrieve bills: %w", err)
		}
		for _, b := range page {
			if !b.IsSettled() {
				outstanding = append(outstanding, b)
			}
		}
		if len(page) < outstandingPageSize {
			break
		}
	}
	return outstanding, nil
}
