package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// BillKind distinguishes a sales invoice from a purchase bill.
type BillKind string

const (
	BillSales    BillKind = "SALES"
	BillPurchase BillKind = "PURCHASE"
)

// PaymentMethod is how money moved for a payment.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodUPI          PaymentMethod = "UPI"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodOther        PaymentMethod = "OTHER"
)

// PaymentStatus is derived from a bill's payment log, never stored.
type PaymentStatus string

const (
	StatusPaid          PaymentStatus = "Paid"
	StatusPartiallyPaid PaymentStatus = "Partially Paid"
	StatusUnpaid        PaymentStatus = "Unpaid"
)

// paidTolerance absorbs cent-level drift when deciding a bill is settled.
var paidTolerance = decimal.RequireFromString("0.01")

// Payment is one append-only record of money received or paid against a bill.
type Payment struct {
	PaymentID   string          `json:"paymentID"` // Primary key (UUID)
	BillID      string          `json:"billID"`    // FK -> bills.bill_id
	PaymentDate time.Time       `json:"paymentDate"`
	Amount      decimal.Decimal `json:"amount"` // Always positive
	Method      PaymentMethod   `json:"method"`
	Reference   string          `json:"reference"` // Free text (UTR, cheque no, ...)
	AuditFields
}

// Validate checks payment invariants before it is appended to a bill.
func (p Payment) Validate() error {
	if p.BillID == "" {
		return errors.New("bill ID is required")
	}
	if !p.Amount.IsPositive() {
		return errors.New("payment amount must be positive")
	}
	switch p.Method {
	case MethodCash, MethodUPI, MethodBankTransfer, MethodOther:
	default:
		return errors.New("unknown payment method")
	}
	return nil
}

// TaxBreakup is the result of applying the flat GST split to a sub-total.
// SGST and CGST are the two equal halves of the total GST amount.
type TaxBreakup struct {
	SubTotal decimal.Decimal `json:"subTotal"`
	Rate     decimal.Decimal `json:"rate"` // Percent, e.g. 18
	SGST     decimal.Decimal `json:"sgstAmount"`
	CGST     decimal.Decimal `json:"cgstAmount"`
	TotalGST decimal.Decimal `json:"totalGstAmount"`
	Total    decimal.Decimal `json:"totalAmount"`
}

// Bill is a sales invoice or purchase bill carrying amount-due state.
// Paid amount, balance due and payment status are not fields: they are
// derived from the append-only Payments log via Settlement, so no call
// site can leave them stale.
type Bill struct {
	BillID        string          `json:"billID"`    // Primary key (UUID)
	CompanyID     string          `json:"companyID"` // FK -> companies.company_id
	Kind          BillKind        `json:"kind"`
	Number        string          `json:"number"` // Invoice/bill number
	PartyLedgerID string          `json:"partyLedgerID"`
	PartyName     string          `json:"partyName"` // Denormalized snapshot
	BillDate      time.Time       `json:"billDate"`
	SubTotal      decimal.Decimal `json:"subTotal"`
	TotalGSTRate  decimal.Decimal `json:"totalGstRate"`
	SGSTAmount    decimal.Decimal `json:"sgstAmount"`
	CGSTAmount    decimal.Decimal `json:"cgstAmount"`
	TotalGST      decimal.Decimal `json:"totalGstAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Notes         string          `json:"notes"`
	Payments      []Payment       `json:"payments"` // Append-only, ordered by application
	AuditFields
}

// Settlement is the derived payment state of a bill.
type Settlement struct {
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	BalanceDue    decimal.Decimal `json:"balanceDue"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
}

// Settlement derives paid amount, balance due and payment status from the
// payment log. It is a pure function of Payments and TotalAmount: replaying
// the same payment set in any order yields the same result, so it is safe
// to recompute at every read.
func (b Bill) Settlement() Settlement {
	paid := decimal.Zero
	for _, p := range b.Payments {
		paid = paid.Add(p.Amount)
	}
	due := b.TotalAmount.Sub(paid)

	status := StatusPartiallyPaid
	switch {
	case len(b.Payments) == 0 && b.TotalAmount.IsPositive():
		status = StatusUnpaid
	case due.LessThanOrEqual(paidTolerance):
		status = StatusPaid
	}

	return Settlement{PaidAmount: paid, BalanceDue: due, PaymentStatus: status}
}

// WithPayment returns a copy of the bill with the payment appended.
// The receiver is not mutated; the payment log stays append-only.
func (b Bill) WithPayment(p Payment) (Bill, error) {
	if err := p.Validate(); err != nil {
		return Bill{}, err
	}
	if p.BillID != b.BillID {
		return Bill{}, errors.New("payment references a different bill")
	}
	payments := make([]Payment, len(b.Payments), len(b.Payments)+1)
	copy(payments, b.Payments)
	b.Payments = append(payments, p)
	return b, nil
}

// IsSettled reports whether the bill's balance due is at or below the
// settlement tolerance. A settled bill is immutable in substance.
func (b Bill) IsSettled() bool {
	return b.Settlement().PaymentStatus == StatusPaid
}
