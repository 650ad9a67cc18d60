package services_test

import (
	"context"
	"testing"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	portssvc "github.com/FurnBooks/furniture_books_app/internal/core/ports/services"
	"github.com/FurnBooks/furniture_books_app/internal/core/services"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CompanyRepository ---
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) CreateCompanyWithSeed(ctx context.Context, company domain.Company, membership domain.UserCompany, seedLedgers []domain.Ledger) error {
	args := m.Called(ctx, company, membership, seedLedgers)
	return args.Error(0)
}

func (m *MockCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error) {
	args := m.Called(ctx, userID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCompany), args.Error(1)
}

var _ portsrepo.CompanyRepositoryFacade = (*MockCompanyRepository)(nil)

// --- Test Suite ---
type CompanyServiceTestSuite struct {
	suite.Suite
	mockCompanyRepo *MockCompanyRepository
	service         portssvc.CompanySvcFacade
	ctx             context.Context
	creatorID       string
}

func (s *CompanyServiceTestSuite) SetupTest() {
	s.mockCompanyRepo = new(MockCompanyRepository)
	s.service = services.NewCompanyService(s.mockCompanyRepo)
	s.ctx = context.Background()
	s.creatorID = uuid.NewString()
}

func (s *CompanyServiceTestSuite) TestCreateCompany_SeedsSystemLedgers() {
	req := dto.CreateCompanyRequest{
		Name:  "Sharma Furniture Works",
		GSTIN: "22AAAAA0000A1Z5",
		State: "Chhattisgarh",
	}

	var membership domain.UserCompany
	var seeded []domain.Ledger
	s.mockCompanyRepo.On("CreateCompanyWithSeed", s.ctx, mock.AnythingOfType("domain.Company"), mock.AnythingOfType("domain.UserCompany"), mock.AnythingOfType("[]domain.Ledger")).
		Run(func(args mock.Arguments) {
			membership = args.Get(2).(domain.UserCompany)
			seeded = args.Get(3).([]domain.Ledger)
		}).Return(nil).Once()

	company, err := s.service.CreateCompany(s.ctx, req, s.creatorID)

	s.Require().NoError(err)
	s.Require().NotNil(company)
	s.Equal("Sharma Furniture Works", company.Name)
	s.True(company.IsActive)

	// Creator becomes admin of the new company
	s.Equal(s.creatorID, membership.UserID)
	s.Equal(company.CompanyID, membership.CompanyID)
	s.Equal(domain.RoleAdmin, membership.Role)

	// The three system ledgers are seeded by name
	s.Require().Len(seeded, 3)
	names := map[string]domain.LedgerGroup{}
	for _, l := range seeded {
		s.True(l.IsSystem)
		s.True(l.IsActive)
		s.Equal(company.CompanyID, l.CompanyID)
		s.True(l.OpeningBalance.IsZero())
		names[l.Name] = l.Group
	}
	s.Equal(domain.SalesAccounts, names[domain.SystemSalesLedgerName])
	s.Equal(domain.PurchaseAccounts, names[domain.SystemPurchaseLedgerName])
	s.Equal(domain.CashInHand, names[domain.SystemCashLedgerName])

	// Company, membership and seeds travel in one repository call, so a
	// failed seed cannot leave a committed company behind.
	s.mockCompanyRepo.AssertNotCalled(s.T(), "AddUserToCompany")
	s.mockCompanyRepo.AssertExpectations(s.T())
}

func (s *CompanyServiceTestSuite) TestCreateCompany_SeedFailure() {
	req := dto.CreateCompanyRequest{Name: "Sharma Furniture Works"}

	s.mockCompanyRepo.On("CreateCompanyWithSeed", s.ctx, mock.AnythingOfType("domain.Company"), mock.AnythingOfType("domain.UserCompany"), mock.AnythingOfType("[]domain.Ledger")).
		Return(apperrors.ErrDuplicate).Once()

	company, err := s.service.CreateCompany(s.ctx, req, s.creatorID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.Nil(company)
}

func (s *CompanyServiceTestSuite) TestAddUserToCompany_NonAdminForbidden() {
	companyID := uuid.NewString()
	targetID := uuid.NewString()

	s.mockCompanyRepo.On("FindUserCompanyRole", s.ctx, s.creatorID, companyID).
		Return(&domain.UserCompany{UserID: s.creatorID, CompanyID: companyID, Role: domain.RoleMember}, nil).Once()

	err := s.service.AddUserToCompany(s.ctx, s.creatorID, targetID, companyID, domain.RoleMember)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.mockCompanyRepo.AssertNotCalled(s.T(), "AddUserToCompany")
}

func (s *CompanyServiceTestSuite) TestAuthorizeUserAction_RoleHierarchy() {
	companyID := uuid.NewString()
	userID := uuid.NewString()

	s.mockCompanyRepo.On("FindUserCompanyRole", s.ctx, userID, companyID).
		Return(&domain.UserCompany{UserID: userID, CompanyID: companyID, Role: domain.RoleAdmin}, nil).Once()
	s.NoError(s.service.AuthorizeUserAction(s.ctx, userID, companyID, domain.RoleMember))

	s.mockCompanyRepo.On("FindUserCompanyRole", s.ctx, userID, companyID).
		Return(&domain.UserCompany{UserID: userID, CompanyID: companyID, Role: domain.RoleReadOnly}, nil).Once()
	s.ErrorIs(s.service.AuthorizeUserAction(s.ctx, userID, companyID, domain.RoleMember), apperrors.ErrForbidden)
}

func (s *CompanyServiceTestSuite) TestAuthorizeUserAction_NotAMember() {
	companyID := uuid.NewString()
	userID := uuid.NewString()

	s.mockCompanyRepo.On("FindUserCompanyRole", s.ctx, userID, companyID).
		Return(nil, apperrors.ErrNotFound).Once()

	err := s.service.AuthorizeUserAction(s.ctx, userID, companyID, domain.RoleReadOnly)

	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *CompanyServiceTestSuite) TestUpdateCompany_NoFieldsIsNoop() {
	companyID := uuid.NewString()

	s.mockCompanyRepo.On("FindUserCompanyRole", s.ctx, s.creatorID, companyID).
		Return(&domain.UserCompany{UserID: s.creatorID, CompanyID: companyID, Role: domain.RoleAdmin}, nil).Once()
	s.mockCompanyRepo.On("FindCompanyByID", s.ctx, companyID).
		Return(&domain.Company{CompanyID: companyID, Name: "Sharma Furniture Works", IsActive: true}, nil).Once()

	company, err := s.service.UpdateCompany(s.ctx, companyID, dto.UpdateCompanyRequest{}, s.creatorID)

	s.Require().NoError(err)
	s.Equal("Sharma Furniture Works", company.Name)
	s.mockCompanyRepo.AssertNotCalled(s.T(), "UpdateCompany")
}

func TestCompanyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
