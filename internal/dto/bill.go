package dto

import (
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentResponse defines the data returned for one payment record.
type PaymentResponse struct {
	PaymentID   string               `json:"paymentID"`
	PaymentDate time.Time            `json:"paymentDate"`
	Amount      decimal.Decimal      `json:"amount"`
	Method      domain.PaymentMethod `json:"method"`
	Reference   string               `json:"reference"`
	CreatedAt   time.Time            `json:"createdAt"`
	CreatedBy   string               `json:"createdBy"`
}

// BillResponse defines the data returned for a bill, including its derived
// settlement state.
type BillResponse struct {
	BillID        string               `json:"billID"`
	CompanyID     string               `json:"companyID"`
	Kind          domain.BillKind      `json:"kind"`
	Number        string               `json:"number"`
	PartyLedgerID string               `json:"partyLedgerID"`
	PartyName     string               `json:"partyName"`
	BillDate      time.Time            `json:"billDate"`
	SubTotal      decimal.Decimal      `json:"subTotal"`
	TotalGSTRate  decimal.Decimal      `json:"totalGstRate"`
	SGSTAmount    decimal.Decimal      `json:"sgstAmount"`
	CGSTAmount    decimal.Decimal      `json:"cgstAmount"`
	TotalGST      decimal.Decimal      `json:"totalGstAmount"`
	TotalAmount   decimal.Decimal      `json:"totalAmount"`
	PaidAmount    decimal.Decimal      `json:"paidAmount"`
	BalanceDue    decimal.Decimal      `json:"balanceDue"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	Notes         string               `json:"notes"`
	Payments      []PaymentResponse    `json:"payments"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.PaymentID,
		PaymentDate: p.PaymentDate,
		Amount:      p.Amount,
		Method:      p.Method,
		Reference:   p.Reference,
		CreatedAt:   p.CreatedAt,
		CreatedBy:   p.CreatedBy,
	}
}

// ToBillResponse converts a domain.Bill to BillResponse DTO. The settlement
// fields are derived from the payment log at conversion time.
func ToBillResponse(b *domain.Bill) BillResponse {
	settlement := b.Settlement()
	payments := make([]PaymentResponse, len(b.Payments))
	for i, p := range b.Payments {
		payments[i] = ToPaymentResponse(&p)
	}
	return BillResponse{
		BillID:        b.BillID,
		CompanyID:     b.CompanyID,
		Kind:          b.Kind,
		Number:        b.Number,
		PartyLedgerID: b.PartyLedgerID,
		PartyName:     b.PartyName,
		BillDate:      b.BillDate,
		SubTotal:      b.SubTotal,
		TotalGSTRate:  b.TotalGSTRate,
		SGSTAmount:    b.SGSTAmount,
		CGSTAmount:    b.CGSTAmount,
		TotalGST:      b.TotalGST,
		TotalAmount:   b.TotalAmount,
		PaidAmount:    settlement.PaidAmount,
		BalanceDue:    settlement.BalanceDue,
		PaymentStatus: settlement.PaymentStatus,
		Notes:         b.Notes,
		Payments:      payments,
		CreatedAt:     b.CreatedAt,
		CreatedBy:     b.CreatedBy,
	}
}

// ToListBillResponse converts a slice of domain.Bill to a slice of BillResponse DTOs.
func ToListBillResponse(bills []domain.Bill) []BillResponse {
	res := make([]BillResponse, len(bills))
	for i, b := range bills {
		res[i] = ToBillResponse(&b)
	}
	return res
}

// ListBillsParams defines query parameters for listing bills. Status is
// derived from the payment log, so filtering on it happens after the fetch.
type ListBillsParams struct {
	Kind          *domain.BillKind      `form:"kind" binding:"omitempty,oneof=SALES PURCHASE"`
	PartyLedgerID *string               `form:"partyLedgerID"`
	Status        *domain.PaymentStatus `form:"status" binding:"omitempty,oneof='Paid' 'Partially Paid' 'Unpaid'"`
	Limit         int                   `form:"limit,default=20"`
	Offset        int                   `form:"offset,default=0"`
}

// ListBillsResponse wraps the list of bills.
type ListBillsResponse struct {
	Bills []BillResponse `json:"bills"`
}
