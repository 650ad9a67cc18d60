package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	portssvc "github.com/FurnBooks/furniture_books_app/internal/core/ports/services"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
	"github.com/FurnBooks/furniture_books_app/internal/middleware"
	"github.com/FurnBooks/furniture_books_app/internal/utils/accounting"
)

// statementService builds running-balance statements from the append-only
// journal.
type statementService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	companySvc portssvc.CompanySvcFacade
}

// NewStatementService creates a new StatementService.
func NewStatementService(ledgerRepo portsrepo.LedgerRepositoryFacade, companySvc portssvc.CompanySvcFacade) portssvc.StatementSvc {
	return &statementService{
		ledgerRepo: ledgerRepo,
		companySvc: companySvc,
	}
}

var _ portssvc.StatementSvc = (*statementService)(nil)

// GetStatement folds a ledger's entries into statement lines. The opening
// balance for the range is the ledger's opening balance plus every entry
// strictly before the range start, so a windowed statement always continues
// seamlessly from the previous one. Zero time bounds mean unbounded.
func (s *statementService) GetStatement(ctx context.Context, companyID string, ledgerID string, from, to time.Time, userID string) (*domain.Statement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetStatement", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find ledger for statement", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
		}
		return nil, err
	}
	if ledger.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	// One fetch up to the range end; the range start is applied in memory so
	// the pre-range entries can feed the opening balance.
	entries, err := s.ledgerRepo.FindEntriesByLedger(ctx, companyID, ledgerID, time.Time{}, to)
	if err != nil {
		logger.Error("Failed to fetch entries for statement", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
		return nil, fmt.Errorf("failed to retrieve entries for ledger %s: %w", ledgerID, err)
	}

	opening := ledger.OpeningBalance
	inRange := entries
	if !from.IsZero() {
		inRange = make([]domain.LedgerEntry, 0, len(entries))
		for _, e := range entries {
			if e.EntryDate.Before(from) {
				opening = opening.Add(e.SignedAmount())
				continue
			}
			inRange = append(inRange, e)
		}
	}

	lines := accounting.FoldStatement(opening, inRange)
	closing := opening
	if len(lines) > 0 {
		closing = lines[len(lines)-1].RunningBalance
	}

	logger.Debug("Statement built", slog.String("ledger_id", ledgerID), slog.Int("line_count", len(lines)))
	return &domain.Statement{
		Ledger:         *ledger,
		OpeningBalance: opening,
		Lines:          lines,
		ClosingBalance: closing,
		ClosingDisplay: domain.FormatBalance(closing),
	}, nil
}

// ListEntries retrieves a paginated list of raw entries for a ledger.
func (s *statementService) ListEntries(ctx context.Context, companyID string, ledgerID string, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListEntries", "error", err)
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByLedger(ctx, companyID, ledgerID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list entries from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}
