package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerGroup mirrors domain.LedgerGroup for DB storage.
type LedgerGroup string

// Ledger is the DB representation of a chart-of-accounts entry.
type Ledger struct {
	LedgerID       string          `db:"ledger_id"`
	CompanyID      string          `db:"company_id"`
	Name           string          `db:"name"`
	LedgerGroup    LedgerGroup     `db:"ledger_group"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	Balance        decimal.Decimal `db:"balance"`
	Email          string          `db:"email"`
	Address        string          `db:"address"`
	GSTIN          string          `db:"gstin"`
	DealerID       string          `db:"dealer_id"`
	IsSystem       bool            `db:"is_system"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}

// EntryType mirrors domain.EntryType for DB storage.
type EntryType string

// LedgerEntry is the DB representation of one journal line. The seq column
// is a bigserial and provides the global insertion order used as the
// statement tie-break.
type LedgerEntry struct {
	EntryID    string          `db:"entry_id"`
	CompanyID  string          `db:"company_id"`
	LedgerID   string          `db:"ledger_id"`
	LedgerName string          `db:"ledger_name"`
	EntryDate  time.Time       `db:"entry_date"`
	EntryType  EntryType       `db:"entry_type"`
	Details    string          `db:"details"`
	Debit      decimal.Decimal `db:"debit"`
	Credit     decimal.Decimal `db:"credit"`
	RefID      string          `db:"ref_id"`
	Seq        int64           `db:"seq"`
	AuditFields
}
