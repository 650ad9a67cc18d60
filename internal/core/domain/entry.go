package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType records which business event produced a ledger entry.
type EntryType string

const (
	EntrySales    EntryType = "SALES"
	EntryPurchase EntryType = "PURCHASE"
	EntryReceipt  EntryType = "RECEIPT"
	EntryPayment  EntryType = "PAYMENT"
)

// LedgerEntry is one debit-or-credit line in the append-only journal.
// Exactly one of Debit/Credit is non-zero. Entries are immutable once
// created; corrections are new offsetting entries.
type LedgerEntry struct {
	EntryID    string          `json:"entryID"`    // Primary key (UUID)
	CompanyID  string          `json:"companyID"`  // FK -> companies.company_id
	LedgerID   string          `json:"ledgerID"`   // FK -> ledgers.ledger_id
	LedgerName string          `json:"ledgerName"` // Denormalized snapshot of the ledger name at posting time
	EntryDate  time.Time       `json:"entryDate"`
	Type       EntryType       `json:"type"`
	Details    string          `json:"details"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	RefID      string          `json:"refID"` // Business document (bill/payment) this line supports
	Seq        int64           `json:"seq"`   // Monotonic insertion order, the statement tie-break for equal dates
	AuditFields
}

// Validate checks the single-sided invariant of a journal line.
func (e LedgerEntry) Validate() error {
	if e.LedgerID == "" {
		return errors.New("ledger ID is required")
	}
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return errors.New("debit and credit must not be negative")
	}
	debitSet := e.Debit.IsPositive()
	creditSet := e.Credit.IsPositive()
	if debitSet == creditSet {
		return errors.New("exactly one of debit or credit must be non-zero")
	}
	return nil
}

// SignedAmount is the debit-positive contribution of this line to its
// ledger's balance: debit - credit.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}
