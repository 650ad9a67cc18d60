package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portssvc "github.com/FurnBooks/furniture_books_app/internal/core/ports/services"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
	"github.com/FurnBooks/furniture_books_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// billHandler handles HTTP requests related to bills.
type billHandler struct {
	billService portssvc.BillSvcFacade
}

// newBillHandler creates a new billHandler.
func newBillHandler(bs portssvc.BillSvcFacade) *billHandler {
	return &billHandler{
		billService: bs,
	}
}

// registerBillRoutes registers bill routes nested under a specific company.
func registerBillRoutes(rg *gin.RouterGroup, billService portssvc.BillSvcFacade) {
	h := newBillHandler(billService)

	bills := rg.Group("/bills")
	{
		bills.GET("", h.listBills)
		bills.GET("/outstanding", h.listOutstandingBills)
		bills.GET("/:bill_id", h.getBill)
	}
}

// listBills godoc
// @Summary List bills
// @Description Retrieves a paginated list of bills with settlement state, optionally filtered by kind and party.
// @Tags bills
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param kind query string false "Bill kind (SALES or PURCHASE)"
// @Param partyLedgerID query string false "Party ledger ID filter"
// @Param status query string false "Settlement status filter (Paid, Partially Paid, Unpaid)"
// @Param limit query int false "Max bills to return" default(20)
// @Param offset query int false "Number of bills to skip" default(0)
// @Success 200 {object} dto.ListBillsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list bills"
// @Security BearerAuth
// @Router /companies/{company_id}/bills [get]
func (h *billHandler) listBills(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListBillsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.billService.ListBills(c.Request.Context(), companyID, userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this company"})
			return
		}
		logger.Error("Failed to list bills", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bills"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// listOutstandingBills godoc
// @Summary List outstanding bills
// @Description Retrieves bills of a kind that are not fully settled, oldest first.
// @Tags bills
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param kind query string true "Bill kind (SALES or PURCHASE)"
// @Success 200 {object} dto.ListBillsResponse
// @Failure 400 {object} map[string]string "Missing or invalid kind"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list outstanding bills"
// @Security BearerAuth
// @Router /companies/{company_id}/bills/outstanding [get]
func (h *billHandler) listOutstandingBills(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	kind := domain.BillKind(c.Query("kind"))
	if kind != domain.BillSales && kind != domain.BillPurchase {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be SALES or PURCHASE"})
		return
	}

	bills, err := h.billService.ListOutstandingBills(c.Request.Context(), companyID, kind, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this company"})
			return
		}
		logger.Error("Failed to list outstanding bills", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list outstanding bills"})
		return
	}

	c.JSON(http.StatusOK, dto.ListBillsResponse{Bills: dto.ToListBillResponse(bills)})
}

// getBill godoc
// @Summary Get a bill by ID
// @Description Retrieves a bill with its payments and settlement state.
// @Tags bills
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param bill_id path string true "Bill ID"
// @Success 200 {object} dto.BillResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Failed to retrieve bill"
// @Security BearerAuth
// @Router /companies/{company_id}/bills/{bill_id} [get]
func (h *billHandler) getBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	billID := c.Param("bill_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bill, err := h.billService.GetBillByID(c.Request.Context(), companyID, billID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this company"})
		} else {
			logger.Error("Failed to get bill", slog.String("bill_id", billID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bill"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}
