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

// ledgerHandler handles HTTP requests related to ledgers.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// RegisterLedgerRoutes registers routes related to ledgers, nested under a
// specific company. Statement routes hang off the single-ledger group.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, statementService portssvc.StatementSvc) {
	h := newLedgerHandler(ledgerService)

	ledgers := rg.Group("/ledgers")
	{
		ledgers.POST("", h.createLedger)
		ledgers.GET("", h.listLedgers)
	}

	ledgerSpecific := rg.Group("/ledgers/:ledger_id")
	{
		ledgerSpecific.GET("", h.getLedger)
		ledgerSpecific.PUT("", h.updateLedger)
		ledgerSpecific.DELETE("", h.deactivateLedger)

		registerStatementRoutes(ledgerSpecific, statementService)
	}
}

// createLedger godoc
// @Summary Create a new ledger
// @Description Creates a new ledger within a company.
// @Tags ledgers
// @Accept  json
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param ledger body dto.CreateLedgerRequest true "Ledger details"
// @Success 201 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Ledger name already in use"
// @Failure 500 {object} map[string]string "Failed to create ledger"
// @Security BearerAuth
// @Router /companies/{company_id}/ledgers [post]
func (h *ledgerHandler) createLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID), slog.String("company_id", companyID))
	logger.Info("Received request to create ledger", slog.String("ledger_name", req.Name))

	newLedger, err := h.ledgerService.CreateLedger(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateLedger) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this company"})
		} else {
			logger.Error("Failed to create ledger in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ledger"})
		}
		return
	}

	logger.Info("Ledger created successfully", slog.String("ledger_id", newLedger.LedgerID))
	c.JSON(http.StatusCreated, dto.ToLedgerResponse(newLedger))
}

// getLedger godoc
// @Summary Get a ledger by ID
// @Description Retrieves details and current balance for a specific ledger.
// @Tags ledgers
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param ledger_id path string true "Ledger ID"
// @Success 200 {object} dto.LedgerResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Ledger not found"
// @Failure 500 {object} map[string]string "Failed to retrieve ledger"
// @Security BearerAuth
// @Router /companies/{company_id}/ledgers/{ledger_id} [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	ledgerID := c.Param("ledger_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ledger, err := h.ledgerService.GetLedgerByID(c.Request.Context(), companyID, ledgerID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this company"})
		} else {
			logger.Error("Failed to get ledger", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ledger"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerResponse(ledger))
}

// listLedgers godoc
// @Summary List ledgers
// @Description Retrieves a paginated list of active ledgers for a company, optionally filtered by group.
// @Tags ledgers
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param group query string false "Ledger group filter"
// @Param limit query int false "Max ledgers to return" default(20)
// @Param offset query int false "Number of ledgers to skip" default(0)
// @Success 200 {object} dto.ListLedgersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list ledgers"
// @Security BearerAuth
// @Router /companies/{company_id}/ledgers [get]
func (h *ledgerHandler) listLedgers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var params dto.ListLedgersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	ledgers, err := h.ledgerService.ListLedgers(c.Request.Context(), companyID, params.Group, params.Limit, params.Offset, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this company"})
			return
		}
		logger.Error("Failed to list ledgers", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledgers"})
		return
	}

	c.JSON(http.StatusOK, dto.ListLedgersResponse{Ledgers: dto.ToListLedgerResponse(ledgers)})
}

// updateLedger godoc
// @Summary Update a ledger
// @Description Updates an existing ledger's details. System ledgers cannot be modified.
// @Tags ledgers
// @Accept  json
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param ledger_id path string true "Ledger ID"
// @Param ledger body dto.UpdateLedgerRequest true "Fields to update"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Ledger not found"
// @Failure 409 {object} map[string]string "System ledger or duplicate name"
// @Failure 500 {object} map[string]string "Failed to update ledger"
// @Security BearerAuth
// @Router /companies/{company_id}/ledgers/{ledger_id} [put]
func (h *ledgerHandler) updateLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	ledgerID := c.Param("ledger_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.ledgerService.UpdateLedger(c.Request.Context(), companyID, ledgerID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger not found"})
		} else if errors.Is(err, services.ErrSystemLedger) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, services.ErrDuplicateLedger) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this company"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update ledger", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ledger"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerResponse(updated))
}

// deactivateLedger godoc
// @Summary Deactivate a ledger
// @Description Marks a ledger as inactive. Ledgers with entries and system ledgers cannot be deactivated.
// @Tags ledgers
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param ledger_id path string true "Ledger ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Ledger not found"
// @Failure 409 {object} map[string]string "Ledger has entries or is a system ledger"
// @Failure 500 {object} map[string]string "Failed to deactivate ledger"
// @Security BearerAuth
// @Router /companies/{company_id}/ledgers/{ledger_id} [delete]
func (h *ledgerHandler) deactivateLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	ledgerID := c.Param("ledger_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.ledgerService.DeactivateLedger(c.Request.Context(), companyID, ledgerID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger not found"})
		} else if errors.Is(err, services.ErrSystemLedger) || errors.Is(err, services.ErrLedgerHasEntries) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this company"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to deactivate ledger", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate ledger"})
		}
		return
	}

	logger.Info("Ledger deactivated", slog.String("ledger_id", ledgerID))
	c.Status(http.StatusNoContent)
}
