package dto

import (
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLedgerRequest defines the data needed to create a new ledger.
type CreateLedgerRequest struct {
	Name           string             `json:"name" binding:"required"`
	Group          domain.LedgerGroup `json:"group" binding:"required,oneof=SUNDRY_DEBTORS SUNDRY_CREDITORS BANK_ACCOUNTS CASH_IN_HAND SALES_ACCOUNTS PURCHASE_ACCOUNTS DUTIES_AND_TAXES DIRECT_EXPENSES INDIRECT_EXPENSES CAPITAL_ACCOUNT"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"` // Signed, debit-positive; zero if omitted
	Email          string             `json:"email" binding:"omitempty,email"`
	Address        string             `json:"address"`
	GSTIN          string             `json:"gstin" binding:"omitempty,gstin"`
	DealerID       string             `json:"dealerID"`
}

// UpdateLedgerRequest defines the data allowed for updating a ledger.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateLedgerRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty"`
	Address  *string `json:"address"`
	GSTIN    *string `json:"gstin" binding:"omitempty,gstin"`
	DealerID *string `json:"dealerID"`
}

// LedgerResponse defines the data returned for a ledger.
type LedgerResponse struct {
	LedgerID       string             `json:"ledgerID"`
	CompanyID      string             `json:"companyID"`
	Name           string             `json:"name"`
	Group          domain.LedgerGroup `json:"group"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
	Balance        decimal.Decimal    `json:"balance"`
	BalanceDisplay string             `json:"balanceDisplay"` // e.g. "1300.00 Dr"
	Email          string             `json:"email"`
	Address        string             `json:"address"`
	GSTIN          string             `json:"gstin"`
	DealerID       string             `json:"dealerID"`
	IsSystem       bool               `json:"isSystem"`
	IsActive       bool               `json:"isActive"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy  string             `json:"lastUpdatedBy"`
}

// ToLedgerResponse converts a domain.Ledger to LedgerResponse DTO.
func ToLedgerResponse(l *domain.Ledger) LedgerResponse {
	return LedgerResponse{
		LedgerID:       l.LedgerID,
		CompanyID:      l.CompanyID,
		Name:           l.Name,
		Group:          l.Group,
		OpeningBalance: l.OpeningBalance,
		Balance:        l.Balance,
		BalanceDisplay: domain.FormatBalance(l.Balance),
		Email:          l.Email,
		Address:        l.Address,
		GSTIN:          l.GSTIN,
		DealerID:       l.DealerID,
		IsSystem:       l.IsSystem,
		IsActive:       l.IsActive,
		CreatedAt:      l.CreatedAt,
		CreatedBy:      l.CreatedBy,
		LastUpdatedAt:  l.LastUpdatedAt,
		LastUpdatedBy:  l.LastUpdatedBy,
	}
}

// ToListLedgerResponse converts a slice of domain.Ledger to a slice of LedgerResponse DTOs.
func ToListLedgerResponse(ledgers []domain.Ledger) []LedgerResponse {
	res := make([]LedgerResponse, len(ledgers))
	for i, l := range ledgers {
		res[i] = ToLedgerResponse(&l)
	}
	return res
}

// ListLedgersParams defines query parameters for listing ledgers.
type ListLedgersParams struct {
	Group  *domain.LedgerGroup `form:"group"`
	Limit  int                 `form:"limit,default=20"`
	Offset int                 `form:"offset,default=0"`
}

// ListLedgersResponse wraps the list of ledgers.
type ListLedgersResponse struct {
	Ledgers []LedgerResponse `json:"ledgers"`
}
