package dto

import (
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSalesInvoiceRequest defines the data needed to post a sales invoice.
type CreateSalesInvoiceRequest struct {
	Number         string          `json:"number" binding:"required"`
	CustomerID     string          `json:"customerID" binding:"required"` // Party ledger ID
	InvoiceDate    time.Time       `json:"invoiceDate" binding:"required"`
	SubTotal       decimal.Decimal `json:"subTotal" binding:"required"`
	GSTRate        decimal.Decimal `json:"gstRate"` // Percent; zero means no tax lines
	Notes          string          `json:"notes"`
	InitialPayment *PaymentDetails `json:"initialPayment"` // Optional money received at invoice time
}

// CreatePurchaseBillRequest defines the data needed to post a purchase bill.
type CreatePurchaseBillRequest struct {
	Number         string          `json:"number" binding:"required"`
	SupplierID     string          `json:"supplierID" binding:"required"` // Party ledger ID
	BillDate       time.Time       `json:"billDate" binding:"required"`
	SubTotal       decimal.Decimal `json:"subTotal" binding:"required"`
	GSTRate        decimal.Decimal `json:"gstRate"`
	Notes          string          `json:"notes"`
	InitialPayment *PaymentDetails `json:"initialPayment"` // Optional money paid at bill time
}

// PaymentDetails carries the money-movement fields shared by receipts and payments.
type PaymentDetails struct {
	Amount    decimal.Decimal      `json:"amount" binding:"required"`
	Method    domain.PaymentMethod `json:"method" binding:"required,oneof=CASH UPI BANK_TRANSFER OTHER"`
	Reference string               `json:"reference"`
}

// CreateReceiptRequest defines the data needed to record money received against a sales bill.
type CreateReceiptRequest struct {
	BillID      string         `json:"billID" binding:"required"`
	ReceiptDate time.Time      `json:"receiptDate" binding:"required"`
	Payment     PaymentDetails `json:"payment" binding:"required"`
}

// CreatePaymentRequest defines the data needed to record money paid against a purchase bill.
type CreatePaymentRequest struct {
	BillID      string         `json:"billID" binding:"required"`
	PaymentDate time.Time      `json:"paymentDate" binding:"required"`
	Payment     PaymentDetails `json:"payment" binding:"required"`
}

// EntryResponse defines the data returned for one journal line.
type EntryResponse struct {
	EntryID    string           `json:"entryID"`
	LedgerID   string           `json:"ledgerID"`
	LedgerName string           `json:"ledgerName"`
	EntryDate  time.Time        `json:"entryDate"`
	Type       domain.EntryType `json:"type"`
	Details    string           `json:"details"`
	Debit      decimal.Decimal  `json:"debit"`
	Credit     decimal.Decimal  `json:"credit"`
	RefID      string           `json:"refID"`
	CreatedAt  time.Time        `json:"createdAt"`
	CreatedBy  string           `json:"createdBy"`
}

// ToEntryResponse converts a domain.LedgerEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:    e.EntryID,
		LedgerID:   e.LedgerID,
		LedgerName: e.LedgerName,
		EntryDate:  e.EntryDate,
		Type:       e.Type,
		Details:    e.Details,
		Debit:      e.Debit,
		Credit:     e.Credit,
		RefID:      e.RefID,
		CreatedAt:  e.CreatedAt,
		CreatedBy:  e.CreatedBy,
	}
}

// ToEntryResponses converts a slice of domain.LedgerEntry to []EntryResponse.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToEntryResponse(&e)
	}
	return responses
}

// PostingResponse defines the combined response after a posting operation.
type PostingResponse struct {
	Bill    *BillResponse   `json:"bill,omitempty"`
	Entries []EntryResponse `json:"entries"`
}
