package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portssvc "github.com/FurnBooks/furniture_books_app/internal/core/ports/services"
	"github.com/FurnBooks/furniture_books_app/internal/core/services"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
	"github.com/FurnBooks/furniture_books_app/internal/handlers"
	"github.com/FurnBooks/furniture_books_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetLedgerByID(ctx context.Context, companyID string, ledgerID string, userID string) (*domain.Ledger, error) {
	args := m.Called(ctx, companyID, ledgerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerService) GetLedgerByName(ctx context.Context, companyID string, name string, userID string) (*domain.Ledger, error) {
	args := m.Called(ctx, companyID, name, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerService) GetLedgersByIDs(ctx context.Context, companyID string, ledgerIDs []string, userID string) (map[string]domain.Ledger, error) {
	args := m.Called(ctx, companyID, ledgerIDs, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Ledger), args.Error(1)
}

func (m *MockLedgerService) ListLedgers(ctx context.Context, companyID string, group *domain.LedgerGroup, limit int, offset int, userID string) ([]domain.Ledger, error) {
	args := m.Called(ctx, companyID, group, limit, offset, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ledger), args.Error(1)
}

func (m *MockLedgerService) CreateLedger(ctx context.Context, companyID string, req dto.CreateLedgerRequest, userID string) (*domain.Ledger, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerService) UpdateLedger(ctx context.Context, companyID string, ledgerID string, req dto.UpdateLedgerRequest, userID string) (*domain.Ledger, error) {
	args := m.Called(ctx, companyID, ledgerID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerService) DeactivateLedger(ctx context.Context, companyID string, ledgerID string, userID string) error {
	args := m.Called(ctx, companyID, ledgerID, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock StatementService ---
type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) GetStatement(ctx context.Context, companyID string, ledgerID string, from, to time.Time, userID string) (*domain.Statement, error) {
	args := m.Called(ctx, companyID, ledgerID, from, to, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statement), args.Error(1)
}

func (m *MockStatementService) ListEntries(ctx context.Context, companyID string, ledgerID string, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, companyID, ledgerID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.StatementSvc = (*MockStatementService)(nil)

// --- Test Suite ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockLedgerService    *MockLedgerService
	mockStatementService *MockStatementService
	jwtSecret            string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *LedgerHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "fba-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tsignedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return tsignedString
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockLedgerService = new(MockLedgerService)
	suite.mockStatementService = new(MockStatementService)

	v1 := suite.router.Group("/api/v1/companies/:company_id")
	handlers.RegisterLedgerRoutes(v1, suite.mockLedgerService, suite.mockStatementService)
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestGetLedger_Success() {
	companyID := uuid.NewString()
	ledgerID := uuid.NewString()
	userID := uuid.NewString()

	expectedLedger := &domain.Ledger{
		LedgerID:       ledgerID,
		CompanyID:      companyID,
		Name:           "Acme Traders",
		Group:          domain.SundryDebtors,
		OpeningBalance: decimal.NewFromInt(500),
		Balance:        decimal.NewFromInt(1300),
		IsActive:       true,
	}

	suite.mockLedgerService.On("GetLedgerByID",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		ledgerID,
		userID,
	).Return(expectedLedger, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/ledgers/%s", companyID, ledgerID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.LedgerResponse
	err := json.Unmarshal(w.Body.Bytes(), &body)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Equal(ledgerID, body.LedgerID)
	suite.Equal("Acme Traders", body.Name)
	suite.Equal("1300.00 Dr", body.BalanceDisplay)

	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetLedger_Unauthorized() {
	companyID := uuid.NewString()
	ledgerID := uuid.NewString()

	url := fmt.Sprintf("/api/v1/companies/%s/ledgers/%s", companyID, ledgerID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	// No Authorization header

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "GetLedgerByID")
}

func (suite *LedgerHandlerTestSuite) TestCreateLedger_DuplicateName() {
	companyID := uuid.NewString()
	userID := uuid.NewString()

	reqBody := dto.CreateLedgerRequest{
		Name:  "Acme Traders",
		Group: domain.SundryDebtors,
	}
	payload, _ := json.Marshal(reqBody)

	suite.mockLedgerService.On("CreateLedger",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		mock.MatchedBy(func(r dto.CreateLedgerRequest) bool {
			return r.Name == reqBody.Name && r.Group == reqBody.Group
		}),
		userID,
	).Return(nil, fmt.Errorf("%w: %q", services.ErrDuplicateLedger, reqBody.Name)).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/ledgers", companyID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestDeactivateLedger_SystemLedger() {
	companyID := uuid.NewString()
	ledgerID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockLedgerService.On("DeactivateLedger",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		ledgerID,
		userID,
	).Return(fmt.Errorf("%w: Sales Account", services.ErrSystemLedger)).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/ledgers/%s", companyID, ledgerID)
	req, _ := http.NewRequest(http.MethodDelete, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetStatement_Success() {
	companyID := uuid.NewString()
	ledgerID := uuid.NewString()
	userID := uuid.NewString()

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	expectedStatement := &domain.Statement{
		Ledger: domain.Ledger{
			LedgerID:  ledgerID,
			CompanyID: companyID,
			Name:      "Acme Traders",
			Group:     domain.SundryDebtors,
		},
		OpeningBalance: decimal.NewFromInt(500),
		Lines: []domain.StatementLine{
			{
				Entry: domain.LedgerEntry{
					EntryID:   uuid.NewString(),
					LedgerID:  ledgerID,
					EntryDate: from.AddDate(0, 0, 9),
					Type:      domain.EntrySales,
					Debit:     decimal.NewFromInt(1180),
				},
				RunningBalance: decimal.NewFromInt(1680),
				Display:        "1680.00 Dr",
			},
		},
		ClosingBalance: decimal.NewFromInt(1680),
		ClosingDisplay: "1680.00 Dr",
	}

	suite.mockStatementService.On("GetStatement",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		ledgerID,
		from,
		to,
		userID,
	).Return(expectedStatement, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/ledgers/%s/statement?from=2025-04-01&to=2025-04-30", companyID, ledgerID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.StatementResponse
	err := json.Unmarshal(w.Body.Bytes(), &body)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Len(body.Lines, 1)
	suite.Equal("1680.00 Dr", body.ClosingDisplay)
	suite.True(body.OpeningBalance.Equal(decimal.NewFromInt(500)))

	suite.mockStatementService.AssertExpectations(suite.T())
	suite.mockLedgerService.AssertNotCalled(suite.T(), "GetLedgerByID")
}

func (suite *LedgerHandlerTestSuite) TestGetStatement_BadDate() {
	companyID := uuid.NewString()
	ledgerID := uuid.NewString()
	userID := uuid.NewString()

	url := fmt.Sprintf("/api/v1/companies/%s/ledgers/%s/statement?from=april-first", companyID, ledgerID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockStatementService.AssertNotCalled(suite.T(), "GetStatement")
}

func (suite *LedgerHandlerTestSuite) TestListEntries_Success() {
	companyID := uuid.NewString()
	ledgerID := uuid.NewString()
	userID := uuid.NewString()
	limit := 10

	nextToken := "opaque-token"
	expectedResponse := &dto.ListEntriesResponse{
		Entries: []dto.EntryResponse{
			{
				EntryID:   uuid.NewString(),
				LedgerID:  ledgerID,
				EntryDate: time.Now(),
				Type:      domain.EntryReceipt,
				Credit:    decimal.NewFromInt(250),
			},
		},
		NextToken: &nextToken,
	}

	suite.mockStatementService.On("ListEntries",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		ledgerID,
		userID,
		mock.MatchedBy(func(p dto.ListEntriesParams) bool {
			return p.Limit == limit && p.NextToken == nil
		}),
	).Return(expectedResponse, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/ledgers/%s/entries?limit=%d", companyID, ledgerID, limit)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.ListEntriesResponse
	err := json.Unmarshal(w.Body.Bytes(), &body)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Len(body.Entries, 1)
	suite.NotNil(body.NextToken)
	suite.Equal(nextToken, *body.NextToken)

	suite.mockStatementService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
