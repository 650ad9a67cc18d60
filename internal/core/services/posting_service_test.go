package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	portssvc "github.com/FurnBooks/furniture_books_app/internal/core/ports/services"
	"github.com/FurnBooks/furniture_books_app/internal/core/services"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PostingRepository ---
type MockPostingRepository struct {
	mock.Mock
}

var _ portsrepo.PostingRepositoryFacade = (*MockPostingRepository)(nil)

func (m *MockPostingRepository) SavePosting(ctx context.Context, entries []domain.LedgerEntry, bill *domain.Bill, payment *domain.Payment, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, entries, bill, payment, balanceChanges)
	return args.Error(0)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) FindLedgerByName(ctx context.Context, companyID string, name string) (*domain.Ledger, error) {
	args := m.Called(ctx, companyID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) FindLedgersByIDs(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error) {
	args := m.Called(ctx, ledgerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) ListLedgers(ctx context.Context, companyID string, group *domain.LedgerGroup, limit int, offset int) ([]domain.Ledger, error) {
	args := m.Called(ctx, companyID, group, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateLedger(ctx context.Context, ledger domain.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeactivateLedger(ctx context.Context, ledgerID string, userID string, now time.Time) error {
	args := m.Called(ctx, ledgerID, userID, now)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindLedgersByIDsForUpdate(ctx context.Context, tx pgx.Tx, ledgerIDs []string) (map[string]domain.Ledger, error) {
	args := m.Called(ctx, tx, ledgerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) UpdateLedgerBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindEntriesByRefID(ctx context.Context, companyID string, refID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, companyID, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByLedger(ctx context.Context, companyID string, ledgerID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, companyID, ledgerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByLedger(ctx context.Context, companyID string, ledgerID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, companyID, ledgerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedNextToken, args.Error(2)
}

// --- Mock BillRepository ---
type MockBillRepository struct {
	mock.Mock
}

var _ portsrepo.BillRepositoryFacade = (*MockBillRepository)(nil)

func (m *MockBillRepository) FindBillByID(ctx context.Context, companyID string, billID string) (*domain.Bill, error) {
	args := m.Called(ctx, companyID, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillRepository) FindBillByNumber(ctx context.Context, companyID string, kind domain.BillKind, billNumber string) (*domain.Bill, error) {
	args := m.Called(ctx, companyID, kind, billNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillRepository) ListBills(ctx context.Context, companyID string, kind *domain.BillKind, partyLedgerID *string, limit int, offset int) ([]domain.Bill, error) {
	args := m.Called(ctx, companyID, kind, partyLedgerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *MockBillRepository) FindBillsByPeriod(ctx context.Context, companyID string, kind domain.BillKind, from, to time.Time) ([]domain.Bill, error) {
	args := m.Called(ctx, companyID, kind, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

// --- Mock CompanyService ---
type MockCompanyService struct {
	mock.Mock
}

var _ portssvc.CompanySvcFacade = (*MockCompanyService)(nil)

func (m *MockCompanyService) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.UserCompanyRole) error {
	args := m.Called(ctx, addingUserID, targetUserID, companyID, role)
	return args.Error(0)
}

func (m *MockCompanyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error {
	args := m.Called(ctx, userID, companyID, requiredRole)
	return args.Error(0)
}

// --- Test Suite Setup ---
type PostingServiceTestSuite struct {
	suite.Suite
	mockPostingRepo *MockPostingRepository
	mockLedgerRepo  *MockLedgerRepository
	mockBillRepo    *MockBillRepository
	mockCompanySvc  *MockCompanyService
	service         portssvc.PostingSvcFacade
	companyID       string
	userID          string
	customer        domain.Ledger
	supplier        domain.Ledger
	salesLedger     domain.Ledger
	purchaseLedger  domain.Ledger
	cashLedger      domain.Ledger
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockPostingRepo = new(MockPostingRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockBillRepo = new(MockBillRepository)
	suite.mockCompanySvc = new(MockCompanyService)
	suite.service = services.NewPostingService(suite.mockPostingRepo, suite.mockLedgerRepo, suite.mockBillRepo, suite.mockCompanySvc)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.customer = domain.Ledger{
		LedgerID:  uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Sharma Furniture House",
		Group:     domain.SundryDebtors,
		IsActive:  true,
	}
	suite.supplier = domain.Ledger{
		LedgerID:  uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Plywood Traders",
		Group:     domain.SundryCreditors,
		IsActive:  true,
	}
	suite.salesLedger = domain.Ledger{
		LedgerID:  uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      domain.SystemSalesLedgerName,
		Group:     domain.SalesAccounts,
		IsSystem:  true,
		IsActive:  true,
	}
	suite.purchaseLedger = domain.Ledger{
		LedgerID:  uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      domain.SystemPurchaseLedgerName,
		Group:     domain.PurchaseAccounts,
		IsSystem:  true,
		IsActive:  true,
	}
	suite.cashLedger = domain.Ledger{
		LedgerID:  uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      domain.SystemCashLedgerName,
		Group:     domain.CashInHand,
		IsSystem:  true,
		IsActive:  true,
	}
}

func (suite *PostingServiceTestSuite) expectAuth(role domain.UserCompanyRole) {
	suite.mockCompanySvc.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.companyID, role).Return(nil).Once()
}

// --- Test Cases ---

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_Success() {
	ctx := context.Background()
	req := dto.CreateSalesInvoiceRequest{
		Number:      "INV-001",
		CustomerID:  suite.customer.LedgerID,
		InvoiceDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		SubTotal:    decimal.NewFromInt(1000),
		GSTRate:     decimal.NewFromInt(18),
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockBillRepo.On("FindBillByNumber", ctx, suite.companyID, domain.BillSales, "INV-001").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("FindLedgerByID", ctx, suite.customer.LedgerID).Return(&suite.customer, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerByName", ctx, suite.companyID, domain.SystemSalesLedgerName).Return(&suite.salesLedger, nil).Once()

	var savedEntries []domain.LedgerEntry
	var savedChanges map[string]decimal.Decimal
	suite.mockPostingRepo.On("SavePosting", ctx, mock.AnythingOfType("[]domain.LedgerEntry"), mock.AnythingOfType("*domain.Bill"), (*domain.Payment)(nil), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(1).([]domain.LedgerEntry)
			savedChanges = args.Get(4).(map[string]decimal.Decimal)
		}).Return(nil).Once()

	bill, err := suite.service.PostSalesInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(bill)
	suite.Equal("INV-001", bill.Number)
	suite.True(bill.SGSTAmount.Equal(decimal.NewFromInt(90)))
	suite.True(bill.CGSTAmount.Equal(decimal.NewFromInt(90)))
	suite.True(bill.TotalAmount.Equal(decimal.NewFromInt(1180)))
	suite.Equal(suite.customer.Name, bill.PartyName)

	suite.Require().Len(savedEntries, 2)
	suite.Equal(suite.customer.LedgerID, savedEntries[0].LedgerID)
	suite.True(savedEntries[0].Debit.Equal(decimal.NewFromInt(1180)))
	suite.Equal(suite.salesLedger.LedgerID, savedEntries[1].LedgerID)
	suite.True(savedEntries[1].Credit.Equal(decimal.NewFromInt(1180)))
	suite.Equal(bill.BillID, savedEntries[0].RefID)

	suite.True(savedChanges[suite.customer.LedgerID].Equal(decimal.NewFromInt(1180)))
	suite.True(savedChanges[suite.salesLedger.LedgerID].Equal(decimal.NewFromInt(-1180)))

	suite.mockCompanySvc.AssertExpectations(suite.T())
	suite.mockPostingRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_AuthorizationFail() {
	ctx := context.Background()
	suite.mockCompanySvc.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.companyID, domain.RoleMember).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.PostSalesInvoice(ctx, suite.companyID, dto.CreateSalesInvoiceRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_DuplicateNumber() {
	ctx := context.Background()
	req := dto.CreateSalesInvoiceRequest{
		Number:      "INV-001",
		CustomerID:  suite.customer.LedgerID,
		InvoiceDate: time.Now(),
		SubTotal:    decimal.NewFromInt(500),
		GSTRate:     decimal.NewFromInt(12),
	}
	existing := domain.Bill{BillID: uuid.NewString(), Number: "INV-001"}

	suite.expectAuth(domain.RoleMember)
	suite.mockBillRepo.On("FindBillByNumber", ctx, suite.companyID, domain.BillSales, "INV-001").Return(&existing, nil).Once()

	_, err := suite.service.PostSalesInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDuplicateBillNumber)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_CustomerWrongCompany() {
	ctx := context.Background()
	foreign := suite.customer
	foreign.CompanyID = uuid.NewString()
	req := dto.CreateSalesInvoiceRequest{
		Number:      "INV-002",
		CustomerID:  foreign.LedgerID,
		InvoiceDate: time.Now(),
		SubTotal:    decimal.NewFromInt(100),
		GSTRate:     decimal.NewFromInt(5),
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockBillRepo.On("FindBillByNumber", ctx, suite.companyID, domain.BillSales, "INV-002").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("FindLedgerByID", ctx, foreign.LedgerID).Return(&foreign, nil).Once()

	_, err := suite.service.PostSalesInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrLedgerNotFound)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_InactiveCustomer() {
	ctx := context.Background()
	inactive := suite.customer
	inactive.IsActive = false
	req := dto.CreateSalesInvoiceRequest{
		Number:      "INV-003",
		CustomerID:  inactive.LedgerID,
		InvoiceDate: time.Now(),
		SubTotal:    decimal.NewFromInt(100),
		GSTRate:     decimal.NewFromInt(5),
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockBillRepo.On("FindBillByNumber", ctx, suite.companyID, domain.BillSales, "INV-003").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("FindLedgerByID", ctx, inactive.LedgerID).Return(&inactive, nil).Once()

	_, err := suite.service.PostSalesInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidPosting)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_NegativeRate() {
	ctx := context.Background()
	req := dto.CreateSalesInvoiceRequest{
		Number:      "INV-004",
		CustomerID:  suite.customer.LedgerID,
		InvoiceDate: time.Now(),
		SubTotal:    decimal.NewFromInt(100),
		GSTRate:     decimal.NewFromInt(-5),
	}

	suite.expectAuth(domain.RoleMember)

	_, err := suite.service.PostSalesInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidPosting)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_WithInitialPayment() {
	ctx := context.Background()
	req := dto.CreateSalesInvoiceRequest{
		Number:      "INV-005",
		CustomerID:  suite.customer.LedgerID,
		InvoiceDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		SubTotal:    decimal.NewFromInt(2000),
		GSTRate:     decimal.NewFromInt(18),
		InitialPayment: &dto.PaymentDetails{
			Amount: decimal.NewFromInt(1000),
			Method: domain.MethodUPI,
		},
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockBillRepo.On("FindBillByNumber", ctx, suite.companyID, domain.BillSales, "INV-005").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("FindLedgerByID", ctx, suite.customer.LedgerID).Return(&suite.customer, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerByName", ctx, suite.companyID, domain.SystemSalesLedgerName).Return(&suite.salesLedger, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerByName", ctx, suite.companyID, domain.SystemCashLedgerName).Return(&suite.cashLedger, nil).Once()

	var savedEntries []domain.LedgerEntry
	var savedPayment *domain.Payment
	suite.mockPostingRepo.On("SavePosting", ctx, mock.AnythingOfType("[]domain.LedgerEntry"), mock.AnythingOfType("*domain.Bill"), mock.AnythingOfType("*domain.Payment"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(1).([]domain.LedgerEntry)
			savedPayment = args.Get(3).(*domain.Payment)
		}).Return(nil).Once()

	bill, err := suite.service.PostSalesInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(bill)
	suite.Require().Len(savedEntries, 4)
	// Receipt pair: cash debited, customer credited, keyed to the payment
	suite.Equal(suite.cashLedger.LedgerID, savedEntries[2].LedgerID)
	suite.True(savedEntries[2].Debit.Equal(decimal.NewFromInt(1000)))
	suite.Equal(suite.customer.LedgerID, savedEntries[3].LedgerID)
	suite.True(savedEntries[3].Credit.Equal(decimal.NewFromInt(1000)))
	suite.Require().NotNil(savedPayment)
	suite.Equal(savedPayment.PaymentID, savedEntries[2].RefID)
	suite.Require().Len(bill.Payments, 1)

	status := bill.Settlement()
	suite.Equal(domain.StatusPartiallyPaid, status.PaymentStatus)
}

func (suite *PostingServiceTestSuite) TestPostPurchaseBill_Success() {
	ctx := context.Background()
	req := dto.CreatePurchaseBillRequest{
		Number:     "PB-001",
		SupplierID: suite.supplier.LedgerID,
		BillDate:   time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC),
		SubTotal:   decimal.NewFromInt(5000),
		GSTRate:    decimal.NewFromInt(12),
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockBillRepo.On("FindBillByNumber", ctx, suite.companyID, domain.BillPurchase, "PB-001").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("FindLedgerByID", ctx, suite.supplier.LedgerID).Return(&suite.supplier, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerByName", ctx, suite.companyID, domain.SystemPurchaseLedgerName).Return(&suite.purchaseLedger, nil).Once()

	var savedEntries []domain.LedgerEntry
	suite.mockPostingRepo.On("SavePosting", ctx, mock.AnythingOfType("[]domain.LedgerEntry"), mock.AnythingOfType("*domain.Bill"), (*domain.Payment)(nil), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(1).([]domain.LedgerEntry)
		}).Return(nil).Once()

	bill, err := suite.service.PostPurchaseBill(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(bill)
	suite.True(bill.TotalAmount.Equal(decimal.NewFromInt(5600)))
	suite.True(bill.SGSTAmount.Equal(decimal.NewFromInt(300)))

	// Purchases debited, supplier credited
	suite.Require().Len(savedEntries, 2)
	suite.Equal(suite.purchaseLedger.LedgerID, savedEntries[0].LedgerID)
	suite.True(savedEntries[0].Debit.Equal(decimal.NewFromInt(5600)))
	suite.Equal(suite.supplier.LedgerID, savedEntries[1].LedgerID)
	suite.True(savedEntries[1].Credit.Equal(decimal.NewFromInt(5600)))
}

func (suite *PostingServiceTestSuite) TestPostReceipt_Success() {
	ctx := context.Background()
	bill := domain.Bill{
		BillID:        uuid.NewString(),
		CompanyID:     suite.companyID,
		Kind:          domain.BillSales,
		Number:        "INV-010",
		PartyLedgerID: suite.customer.LedgerID,
		PartyName:     suite.customer.Name,
		TotalAmount:   decimal.NewFromInt(1180),
	}
	req := dto.CreateReceiptRequest{
		BillID:      bill.BillID,
		ReceiptDate: time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC),
		Payment: dto.PaymentDetails{
			Amount: decimal.NewFromInt(1180),
			Method: domain.MethodCash,
		},
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockBillRepo.On("FindBillByID", ctx, suite.companyID, bill.BillID).Return(&bill, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerByID", ctx, suite.customer.LedgerID).Return(&suite.customer, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerByName", ctx, suite.companyID, domain.SystemCashLedgerName).Return(&suite.cashLedger, nil).Once()

	var savedEntries []domain.LedgerEntry
	suite.mockPostingRepo.On("SavePosting", ctx, mock.AnythingOfType("[]domain.LedgerEntry"), (*domain.Bill)(nil), mock.AnythingOfType("*domain.Payment"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(1).([]domain.LedgerEntry)
		}).Return(nil).Once()

	updated, err := suite.service.PostReceipt(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Require().Len(updated.Payments, 1)
	suite.Equal(domain.StatusPaid, updated.Settlement().PaymentStatus)

	suite.Require().Len(savedEntries, 2)
	suite.Equal(suite.cashLedger.LedgerID, savedEntries[0].LedgerID)
	suite.True(savedEntries[0].Debit.Equal(decimal.NewFromInt(1180)))
	suite.Equal(suite.customer.LedgerID, savedEntries[1].LedgerID)
	suite.True(savedEntries[1].Credit.Equal(decimal.NewFromInt(1180)))
}

func (suite *PostingServiceTestSuite) TestPostReceipt_KindMismatch() {
	ctx := context.Background()
	bill := domain.Bill{
		BillID:    uuid.NewString(),
		CompanyID: suite.companyID,
		Kind:      domain.BillPurchase,
	}
	req := dto.CreateReceiptRequest{
		BillID:      bill.BillID,
		ReceiptDate: time.Now(),
		Payment:     dto.PaymentDetails{Amount: decimal.NewFromInt(100), Method: domain.MethodCash},
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockBillRepo.On("FindBillByID", ctx, suite.companyID, bill.BillID).Return(&bill, nil).Once()

	_, err := suite.service.PostReceipt(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrBillKindMismatch)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostPayment_OverpaymentAllowed() {
	ctx := context.Background()
	bill := domain.Bill{
		BillID:        uuid.NewString(),
		CompanyID:     suite.companyID,
		Kind:          domain.BillPurchase,
		Number:        "PB-010",
		PartyLedgerID: suite.supplier.LedgerID,
		TotalAmount:   decimal.NewFromInt(500),
	}
	req := dto.CreatePaymentRequest{
		BillID:      bill.BillID,
		PaymentDate: time.Now(),
		Payment:     dto.PaymentDetails{Amount: decimal.NewFromInt(600), Method: domain.MethodBankTransfer},
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockBillRepo.On("FindBillByID", ctx, suite.companyID, bill.BillID).Return(&bill, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerByID", ctx, suite.supplier.LedgerID).Return(&suite.supplier, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerByName", ctx, suite.companyID, domain.SystemCashLedgerName).Return(&suite.cashLedger, nil).Once()
	suite.mockPostingRepo.On("SavePosting", ctx, mock.Anything, (*domain.Bill)(nil), mock.AnythingOfType("*domain.Payment"), mock.Anything).Return(nil).Once()

	updated, err := suite.service.PostPayment(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	settlement := updated.Settlement()
	suite.Equal(domain.StatusPaid, settlement.PaymentStatus)
	suite.True(settlement.BalanceDue.IsNegative())
}

func (suite *PostingServiceTestSuite) TestReversePosting_Success() {
	ctx := context.Background()
	refID := uuid.NewString()
	original := []domain.LedgerEntry{
		{
			EntryID:   uuid.NewString(),
			CompanyID: suite.companyID,
			LedgerID:  suite.customer.LedgerID,
			EntryDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
			Type:      domain.EntrySales,
			Details:   "Sales Invoice INV-001",
			Debit:     decimal.NewFromInt(1180),
			RefID:     refID,
		},
		{
			EntryID:   uuid.NewString(),
			CompanyID: suite.companyID,
			LedgerID:  suite.salesLedger.LedgerID,
			EntryDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
			Type:      domain.EntrySales,
			Details:   "Sales Invoice INV-001",
			Credit:    decimal.NewFromInt(1180),
			RefID:     refID,
		},
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockLedgerRepo.On("FindEntriesByRefID", ctx, suite.companyID, refID).Return(original, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByRefID", ctx, suite.companyID, "REV-"+refID).Return([]domain.LedgerEntry{}, nil).Once()
	suite.mockPostingRepo.On("SavePosting", ctx, mock.AnythingOfType("[]domain.LedgerEntry"), (*domain.Bill)(nil), (*domain.Payment)(nil), mock.Anything).Return(nil).Once()

	reversed, err := suite.service.ReversePosting(ctx, suite.companyID, refID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(reversed, 2)
	// Sides swap, dates and amounts carry over
	suite.True(reversed[0].Credit.Equal(decimal.NewFromInt(1180)))
	suite.True(reversed[0].Debit.IsZero())
	suite.True(reversed[1].Debit.Equal(decimal.NewFromInt(1180)))
	suite.Equal("REV-"+refID, reversed[0].RefID)
	suite.Equal(original[0].EntryDate, reversed[0].EntryDate)
	suite.Contains(reversed[0].Details, "Reversal of ")
}

func (suite *PostingServiceTestSuite) TestReversePosting_AlreadyReversed() {
	ctx := context.Background()
	refID := uuid.NewString()
	original := []domain.LedgerEntry{{EntryID: uuid.NewString(), RefID: refID, Debit: decimal.NewFromInt(100)}}
	priorReversal := []domain.LedgerEntry{{EntryID: uuid.NewString(), RefID: "REV-" + refID, Credit: decimal.NewFromInt(100)}}

	suite.expectAuth(domain.RoleMember)
	suite.mockLedgerRepo.On("FindEntriesByRefID", ctx, suite.companyID, refID).Return(original, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByRefID", ctx, suite.companyID, "REV-"+refID).Return(priorReversal, nil).Once()

	_, err := suite.service.ReversePosting(ctx, suite.companyID, refID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReversePosting_OfReversalRefused() {
	ctx := context.Background()

	suite.expectAuth(domain.RoleMember)

	_, err := suite.service.ReversePosting(ctx, suite.companyID, "REV-"+uuid.NewString(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "FindEntriesByRefID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReversePosting_NotFound() {
	ctx := context.Background()
	refID := uuid.NewString()

	suite.expectAuth(domain.RoleMember)
	suite.mockLedgerRepo.On("FindEntriesByRefID", ctx, suite.companyID, refID).Return([]domain.LedgerEntry{}, nil).Once()

	_, err := suite.service.ReversePosting(ctx, suite.companyID, refID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestGetPostingByRefID_Success() {
	ctx := context.Background()
	refID := uuid.NewString()
	entries := []domain.LedgerEntry{{EntryID: uuid.NewString(), RefID: refID}}

	suite.mockCompanySvc.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByRefID", ctx, suite.companyID, refID).Return(entries, nil).Once()

	got, err := suite.service.GetPostingByRefID(ctx, suite.companyID, refID, suite.userID)

	suite.Require().NoError(err)
	suite.Len(got, 1)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
