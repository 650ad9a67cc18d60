package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	portssvc "github.com/FurnBooks/furniture_books_app/internal/core/ports/services"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
	"github.com/FurnBooks/furniture_books_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// statementHandler handles HTTP requests for ledger statements and raw entry listings.
type statementHandler struct {
	statementService portssvc.StatementSvc
}

// newStatementHandler creates a new statementHandler.
func newStatementHandler(ss portssvc.StatementSvc) *statementHandler {
	return &statementHandler{
		statementService: ss,
	}
}

// registerStatementRoutes registers statement routes nested under a single ledger.
func registerStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementSvc) {
	h := newStatementHandler(statementService)

	rg.GET("/statement", h.getStatement)
	rg.GET("/entries", h.listEntries)
}

// parseDateParam parses an optional yyyy-mm-dd query parameter. A missing
// parameter yields the zero time, which downstream treats as an open bound.
func parseDateParam(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

// getStatement godoc
// @Summary Get a ledger statement
// @Description Builds a statement for a ledger over a date range: opening balance, one line per entry with a running balance, and the closing balance.
// @Tags statements
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param ledger_id path string true "Ledger ID"
// @Param from query string false "Range start (yyyy-mm-dd)"
// @Param to query string false "Range end (yyyy-mm-dd)"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} map[string]string "Invalid date parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Ledger not found"
// @Failure 500 {object} map[string]string "Failed to build statement"
// @Security BearerAuth
// @Router /companies/{company_id}/ledgers/{ledger_id}/statement [get]
func (h *statementHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	ledgerID := c.Param("ledger_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	from, err := parseDateParam(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date, expected yyyy-mm-dd"})
		return
	}
	to, err := parseDateParam(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date, expected yyyy-mm-dd"})
		return
	}

	statement, err := h.statementService.GetStatement(c.Request.Context(), companyID, ledgerID, from, to, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this company"})
		} else {
			logger.Error("Failed to build statement", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build statement"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToStatementResponse(statement))
}

// listEntries godoc
// @Summary List ledger entries
// @Description Retrieves a paginated list of raw entries for a ledger, newest first.
// @Tags statements
// @Produce  json
// @Param company_id path string true "Company ID"
// @Param ledger_id path string true "Ledger ID"
// @Param limit query int false "Max entries to return" default(20)
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Ledger not found"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Security BearerAuth
// @Router /companies/{company_id}/ledgers/{ledger_id}/entries [get]
func (h *statementHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	ledgerID := c.Param("ledger_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.statementService.ListEntries(c.Request.Context(), companyID, ledgerID, userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this company"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list entries", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		}
		return
	}

	c.JSON(http.StatusOK, page)
}
