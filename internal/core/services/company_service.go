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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// systemLedgerSeeds describes the three ledgers every company starts with.
// Posting rules resolve them by name, so they must exist before the first
// posting.
var systemLedgerSeeds = []struct {
	Name  string
	Group domain.LedgerGroup
}{
	{domain.SystemSalesLedgerName, domain.SalesAccounts},
	{domain.SystemPurchaseLedgerName, domain.PurchaseAccounts},
	{domain.SystemCashLedgerName, domain.CashInHand},
}

// companyService implements the CompanySvcFacade interface
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new company service with the provided dependencies
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade) portssvc.CompanySvcFacade {
	return &companyService{
		companyRepo: companyRepo,
	}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// FindCompanyByID retrieves a company by its ID
func (s *companyService) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company by ID",
				slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

// ListUserCompanies retrieves all companies a user belongs to
func (s *companyService) ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompaniesByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies for user",
			slog.String("user_id", userID))
		return nil, err
	}
	if companies == nil {
		return []domain.Company{}, nil
	}
	return companies, nil
}

// CreateCompany creates a new company, makes the creator its admin and seeds
// the system ledgers.
func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	now := time.Now().UTC()
	companyID := uuid.NewString()

	company := domain.Company{
		CompanyID: companyID,
		Name:      req.Name,
		GSTIN:     req.GSTIN,
		State:     req.State,
		Address:   req.Address,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	membership := domain.UserCompany{
		UserID:    creatorUserID,
		CompanyID: companyID,
		Role:      domain.RoleAdmin,
		JoinedAt:  now,
	}

	seedLedgers := make([]domain.Ledger, 0, len(systemLedgerSeeds))
	for _, seed := range systemLedgerSeeds {
		seedLedgers = append(seedLedgers, domain.Ledger{
			LedgerID:       uuid.NewString(),
			CompanyID:      companyID,
			Name:           seed.Name,
			Group:          seed.Group,
			OpeningBalance: decimal.Zero,
			Balance:        decimal.Zero,
			IsSystem:       true,
			IsActive:       true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		})
	}

	// One transaction: a seed failure must not leave a company behind whose
	// postings can never resolve the system ledgers.
	if err := s.companyRepo.CreateCompanyWithSeed(ctx, company, membership, seedLedgers); err != nil {
		s.LogError(ctx, err, "Failed to create company with system ledgers",
			slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.LogInfo(ctx, "Company created with system ledgers",
		slog.String("company_id", companyID),
		slog.String("creator_id", creatorUserID))
	return &company, nil
}

// UpdateCompany updates a company's details. Admin only.
func (s *companyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		company.Name = *req.Name
		updated = true
	}
	if req.GSTIN != nil {
		company.GSTIN = *req.GSTIN
		updated = true
	}
	if req.State != nil {
		company.State = *req.State
		updated = true
	}
	if req.Address != nil {
		company.Address = *req.Address
		updated = true
	}
	if !updated {
		return company, nil
	}

	company.LastUpdatedAt = time.Now().UTC()
	company.LastUpdatedBy = requestingUserID

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		s.LogError(ctx, err, "Failed to update company",
			slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	s.LogInfo(ctx, "Company updated", slog.String("company_id", companyID))
	return company, nil
}

// AddUserToCompany adds a user to a company with a specific role
func (s *companyService) AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.UserCompanyRole) error {
	// Self-assignment is permitted for the creator bootstrapping the company
	if addingUserID != targetUserID {
		if err := s.AuthorizeUserAction(ctx, addingUserID, companyID, domain.RoleAdmin); err != nil {
			s.LogError(ctx, err, "User not authorized to add members to company",
				slog.String("adding_user_id", addingUserID),
				slog.String("company_id", companyID))
			return err
		}
	}

	membership := domain.UserCompany{
		UserID:    targetUserID,
		CompanyID: companyID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}

	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to company",
			slog.String("target_user_id", targetUserID),
			slog.String("company_id", companyID))
		return err
	}

	s.LogInfo(ctx, "User added to company",
		slog.String("target_user_id", targetUserID),
		slog.String("company_id", companyID),
		slog.String("role", string(role)))
	return nil
}

// AuthorizeUserAction checks if a user has required permissions for a company
func (s *companyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error {
	membership, err := s.companyRepo.FindUserCompanyRole(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of company",
				slog.String("user_id", userID),
				slog.String("company_id", companyID))
			return apperrors.ErrForbidden
		}
		s.LogError(ctx, err, "Failed to find user company role",
			slog.String("user_id", userID),
			slog.String("company_id", companyID))
		return err
	}

	if !membership.Role.AtLeast(requiredRole) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("company_id", companyID),
			slog.String("user_role", string(membership.Role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.ErrForbidden
	}
	return nil
}
