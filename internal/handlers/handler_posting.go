package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	portssvc "github.com/FurnBooks/furniture_books_app/internal/core/ports/services"
	"github.com/FurnBooks/furniture_books_app/internal/core/services"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
	"github.com/FurnBooks/furniture_books_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler handles HTTP requests that record or read bookkeeping postings.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

// newPostingHandler creates a new postingHandler.
func newPostingHandler(ps portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{
		postingService: ps,
	}
}

// registerPostingRoutes registers posting routes nested under a specific company.
func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)

	rg.POST("/sales-invoices", h.postSalesInvoice)
	rg.POST("/purchase-bills", h.postPurchaseBill)
	rg.POST("/receipts", h.postReceipt)
	rg.POST("/payments", h.postPayment)

	postings := rg.Group("/postings/:ref_id")
	{
		postings.GET("", h.getPosting)
		postings.POST("/reverse", h.reversePosting)
	}
}

// respondPostingError maps posting service errors onto HTTP statuses.
func respondPostingError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, services.ErrDuplicateBillNumber):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrBillKindMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyReversed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrLedgerNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidPosting):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this company"})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// postSalesInvoice godoc
// @Summary Post a sales invoice
// @Description Records a sales invoice: debits the customer, credits sales, and records any initial payment.
// @Tags postings
// @Accept  json
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param invoice body dto.CreateSalesInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Invoice number already in use"
// @Failure 500 {object} map[string]string "Failed to post sales invoice"
// @Security BearerAuth
// @Router /companies/{company_id}/sales-invoices [post]
func (h *postingHandler) postSalesInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateSalesInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostSalesInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("user_id", userID))
	logger.Info("Received request to post sales invoice", slog.String("number", req.Number))

	bill, err := h.postingService.PostSalesInvoice(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondPostingError(c, logger, err, "post sales invoice")
		return
	}

	logger.Info("Sales invoice posted", slog.String("bill_id", bill.BillID))
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

// postPurchaseBill godoc
// @Summary Post a purchase bill
// @Description Records a purchase bill: debits purchases, credits the supplier, and records any initial payment.
// @Tags postings
// @Accept  json
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param bill body dto.CreatePurchaseBillRequest true "Bill details"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Bill number already in use"
// @Failure 500 {object} map[string]string "Failed to post purchase bill"
// @Security BearerAuth
// @Router /companies/{company_id}/purchase-bills [post]
func (h *postingHandler) postPurchaseBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreatePurchaseBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostPurchaseBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("user_id", userID))
	logger.Info("Received request to post purchase bill", slog.String("number", req.Number))

	bill, err := h.postingService.PostPurchaseBill(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondPostingError(c, logger, err, "post purchase bill")
		return
	}

	logger.Info("Purchase bill posted", slog.String("bill_id", bill.BillID))
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

// postReceipt godoc
// @Summary Record a receipt
// @Description Records money received against a sales bill: debits cash, credits the customer.
// @Tags postings
// @Accept  json
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param receipt body dto.CreateReceiptRequest true "Receipt details"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 409 {object} map[string]string "Bill is not a sales bill"
// @Failure 500 {object} map[string]string "Failed to record receipt"
// @Security BearerAuth
// @Router /companies/{company_id}/receipts [post]
func (h *postingHandler) postReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("user_id", userID))

	bill, err := h.postingService.PostReceipt(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondPostingError(c, logger, err, "record receipt")
		return
	}

	logger.Info("Receipt recorded", slog.String("bill_id", bill.BillID))
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

// postPayment godoc
// @Summary Record a payment
// @Description Records money paid against a purchase bill: debits the supplier, credits cash.
// @Tags postings
// @Accept  json
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 409 {object} map[string]string "Bill is not a purchase bill"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /companies/{company_id}/payments [post]
func (h *postingHandler) postPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("user_id", userID))

	bill, err := h.postingService.PostPayment(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondPostingError(c, logger, err, "record payment")
		return
	}

	logger.Info("Payment recorded", slog.String("bill_id", bill.BillID))
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

// getPosting godoc
// @Summary Get a posting by reference ID
// @Description Retrieves all ledger entries that share a reference ID.
// @Tags postings
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param ref_id path string true "Reference ID"
// @Success 200 {object} dto.PostingResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Posting not found"
// @Failure 500 {object} map[string]string "Failed to retrieve posting"
// @Security BearerAuth
// @Router /companies/{company_id}/postings/{ref_id} [get]
func (h *postingHandler) getPosting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	refID := c.Param("ref_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entries, err := h.postingService.GetPostingByRefID(c.Request.Context(), companyID, refID, userID)
	if err != nil {
		respondPostingError(c, logger, err, "retrieve posting")
		return
	}

	c.JSON(http.StatusOK, dto.PostingResponse{Entries: dto.ToEntryResponses(entries)})
}

// reversePosting godoc
// @Summary Reverse a posting
// @Description Creates contra entries that cancel an existing posting, identified by its reference ID.
// @Tags postings
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param ref_id path string true "Reference ID"
// @Success 201 {object} dto.PostingResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Posting not found"
// @Failure 409 {object} map[string]string "Posting already reversed or is itself a reversal"
// @Failure 500 {object} map[string]string "Failed to reverse posting"
// @Security BearerAuth
// @Router /companies/{company_id}/postings/{ref_id}/reverse [post]
func (h *postingHandler) reversePosting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	refID := c.Param("ref_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("ref_id", refID))
	logger.Info("Received request to reverse posting")

	entries, err := h.postingService.ReversePosting(c.Request.Context(), companyID, refID, userID)
	if err != nil {
		respondPostingError(c, logger, err, "reverse posting")
		return
	}

	logger.Info("Posting reversed", slog.Int("entry_count", len(entries)))
	c.JSON(http.StatusCreated, dto.PostingResponse{Entries: dto.ToEntryResponses(entries)})
}
