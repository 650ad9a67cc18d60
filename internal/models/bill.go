package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillKind mirrors domain.BillKind for DB storage.
type BillKind string

// Bill is the DB representation of a sales invoice or purchase bill.
// Paid amount, balance due and payment status are derived on read and
// deliberately have no columns.
type Bill struct {
	BillID        string          `db:"bill_id"`
	CompanyID     string          `db:"company_id"`
	Kind          BillKind        `db:"kind"`
	Number        string          `db:"number"`
	PartyLedgerID string          `db:"party_ledger_id"`
	PartyName     string          `db:"party_name"`
	BillDate      time.Time       `db:"bill_date"`
	SubTotal      decimal.Decimal `db:"sub_total"`
	TotalGSTRate  decimal.Decimal `db:"total_gst_rate"`
	SGSTAmount    decimal.Decimal `db:"sgst_amount"`
	CGSTAmount    decimal.Decimal `db:"cgst_amount"`
	TotalGST      decimal.Decimal `db:"total_gst_amount"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Notes         string          `db:"notes"`
	AuditFields
}

// PaymentMethod mirrors domain.PaymentMethod for DB storage.
type PaymentMethod string

// Payment is the DB representation of one append-only payment record.
type Payment struct {
	PaymentID   string          `db:"payment_id"`
	BillID      string          `db:"bill_id"`
	PaymentDate time.Time       `db:"payment_date"`
	Amount      decimal.Decimal `db:"amount"`
	Method      PaymentMethod   `db:"method"`
	Reference   string          `db:"reference"`
	AuditFields
}
