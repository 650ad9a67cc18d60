package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	portssvc "github.com/FurnBooks/furniture_books_app/internal/core/ports/services"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
	"github.com/FurnBooks/furniture_books_app/internal/middleware"
)

var (
	ErrDuplicateLedger  = errors.New("ledger with this name already exists")
	ErrSystemLedger     = errors.New("system ledgers cannot be modified")
	ErrLedgerHasEntries = errors.New("ledger has journal entries")
)

// ledgerService manages the chart of accounts.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	companySvc portssvc.CompanySvcFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, companySvc portssvc.CompanySvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		companySvc: companySvc,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateLedger persists a new ledger after validating its group and checking
// the case-insensitive name uniqueness within the company.
func (s *ledgerService) CreateLedger(ctx context.Context, companyID string, req dto.CreateLedgerRequest, userID string) (*domain.Ledger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateLedger", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	if !domain.IsValidLedgerGroup(req.Group) {
		return nil, fmt.Errorf("%w: unknown ledger group %q", apperrors.ErrValidation, req.Group)
	}

	existing, err := s.ledgerRepo.FindLedgerByName(ctx, companyID, req.Name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check ledger name uniqueness", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to check ledger name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateLedger, req.Name)
	}

	now := time.Now().UTC()
	ledger := domain.Ledger{
		LedgerID:       uuid.NewString(),
		CompanyID:      companyID,
		Name:           req.Name,
		Group:          req.Group,
		OpeningBalance: req.OpeningBalance,
		Balance:        req.OpeningBalance,
		Email:          req.Email,
		Address:        req.Address,
		GSTIN:          req.GSTIN,
		DealerID:       req.DealerID,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.ledgerRepo.SaveLedger(ctx, ledger); err != nil {
		// The partial unique index closes the check-then-insert race.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLedger, req.Name)
		}
		logger.Error("Failed to save ledger", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save ledger: %w", err)
	}

	logger.Info("Ledger created", slog.String("ledger_id", ledger.LedgerID), slog.String("name", ledger.Name), slog.String("company_id", companyID))
	return &ledger, nil
}

// GetLedgerByID retrieves a ledger, hiding ledgers of other companies.
func (s *ledgerService) GetLedgerByID(ctx context.Context, companyID string, ledgerID string, userID string) (*domain.Ledger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetLedgerByID", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find ledger by ID", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
		}
		return nil, err
	}
	if ledger.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return ledger, nil
}

// GetLedgerByName retrieves a ledger by its case-insensitive name.
func (s *ledgerService) GetLedgerByName(ctx context.Context, companyID string, name string, userID string) (*domain.Ledger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetLedgerByName", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}
	return s.ledgerRepo.FindLedgerByName(ctx, companyID, name)
}

// GetLedgersByIDs retrieves multiple ledgers, dropping any that belong to a
// different company.
func (s *ledgerService) GetLedgersByIDs(ctx context.Context, companyID string, ledgerIDs []string, userID string) (map[string]domain.Ledger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetLedgersByIDs", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	ledgers, err := s.ledgerRepo.FindLedgersByIDs(ctx, ledgerIDs)
	if err != nil {
		logger.Error("Failed to find ledgers by IDs", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to fetch ledgers: %w", err)
	}
	for id, l := range ledgers {
		if l.CompanyID != companyID {
			delete(ledgers, id)
		}
	}
	return ledgers, nil
}

// ListLedgers retrieves a paginated list of ledgers for a company.
func (s *ledgerService) ListLedgers(ctx context.Context, companyID string, group *domain.LedgerGroup, limit int, offset int, userID string) ([]domain.Ledger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListLedgers", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	return s.ledgerRepo.ListLedgers(ctx, companyID, group, limit, offset)
}

// UpdateLedger updates the mutable fields of a ledger. System ledgers keep
// their names; postings resolve them by name.
func (s *ledgerService) UpdateLedger(ctx context.Context, companyID string, ledgerID string, req dto.UpdateLedgerRequest, userID string) (*domain.Ledger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for UpdateLedger", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	if ledger.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	updated := false
	if req.Name != nil && *req.Name != ledger.Name {
		if ledger.IsSystem {
			return nil, fmt.Errorf("%w: %s", ErrSystemLedger, ledger.Name)
		}
		existing, err := s.ledgerRepo.FindLedgerByName(ctx, companyID, *req.Name)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check ledger name: %w", err)
		}
		if existing != nil && existing.LedgerID != ledgerID {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLedger, *req.Name)
		}
		ledger.Name = *req.Name
		updated = true
	}
	if req.Email != nil {
		ledger.Email = *req.Email
		updated = true
	}
	if req.Address != nil {
		ledger.Address = *req.Address
		updated = true
	}
	if req.GSTIN != nil {
		ledger.GSTIN = *req.GSTIN
		updated = true
	}
	if req.DealerID != nil {
		ledger.DealerID = *req.DealerID
		updated = true
	}

	if !updated {
		return ledger, nil
	}

	now := time.Now().UTC()
	ledger.LastUpdatedAt = now
	ledger.LastUpdatedBy = userID

	if err := s.ledgerRepo.UpdateLedger(ctx, *ledger); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLedger, ledger.Name)
		}
		logger.Error("Failed to update ledger", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
		return nil, fmt.Errorf("failed to update ledger: %w", err)
	}

	logger.Info("Ledger updated", slog.String("ledger_id", ledgerID))
	return ledger, nil
}

// DeactivateLedger marks a ledger inactive. Ledgers referenced by journal
// entries stay active so old statements remain explainable; system ledgers
// are never deactivated.
func (s *ledgerService) DeactivateLedger(ctx context.Context, companyID string, ledgerID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		logger.Warn("Authorization failed for DeactivateLedger", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return err
	}

	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return err
	}
	if ledger.CompanyID != companyID {
		return apperrors.ErrNotFound
	}
	if ledger.IsSystem {
		return fmt.Errorf("%w: %s", ErrSystemLedger, ledger.Name)
	}

	entries, _, err := s.ledgerRepo.ListEntriesByLedger(ctx, companyID, ledgerID, 1, nil)
	if err != nil {
		logger.Error("Failed to check ledger entries before deactivation", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
		return fmt.Errorf("failed to check ledger entries: %w", err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s", ErrLedgerHasEntries, ledger.Name)
	}

	if err := s.ledgerRepo.DeactivateLedger(ctx, ledgerID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate ledger", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
		return fmt.Errorf("failed to deactivate ledger: %w", err)
	}

	logger.Info("Ledger deactivated", slog.String("ledger_id", ledgerID))
	return nil
}
