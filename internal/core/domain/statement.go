package domain

import (
	"github.com/shopspring/decimal"
)

// BalanceSide is the Dr/Cr display convention for a running balance.
// A non-negative balance is a debit balance (assets, debtors), a negative
// one a credit balance (liabilities, creditors). The sign convention
// carries accounting meaning and must not be normalized away.
type BalanceSide string

const (
	SideDebit  BalanceSide = "Dr"
	SideCredit BalanceSide = "Cr"
)

// SideOf returns the display side for a signed, debit-positive balance.
func SideOf(balance decimal.Decimal) BalanceSide {
	if balance.IsNegative() {
		return SideCredit
	}
	return SideDebit
}

// FormatBalance renders a signed balance with the Dr/Cr convention,
// e.g. "1300.00 Dr".
func FormatBalance(balance decimal.Decimal) string {
	return balance.Abs().StringFixed(2) + " " + string(SideOf(balance))
}

// StatementLine pairs a journal entry with the running balance after it.
type StatementLine struct {
	Entry          LedgerEntry     `json:"entry"`
	RunningBalance decimal.Decimal `json:"runningBalance"` // Signed, debit-positive
	Side           BalanceSide     `json:"side"`
	Display        string          `json:"display"` // abs(balance) with Dr/Cr suffix
}

// Statement is the chronological running-balance view of one ledger.
type Statement struct {
	Ledger         Ledger          `json:"ledger"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []StatementLine `json:"lines"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	ClosingDisplay string          `json:"closingDisplay"`
}

// TrialBalanceRow is one ledger's closing balance placed in its Dr or Cr
// column. For balanced books the Dr and Cr column totals are equal.
type TrialBalanceRow struct {
	LedgerID   string          `json:"ledgerID"`
	LedgerName string          `json:"ledgerName"`
	Group      LedgerGroup     `json:"group"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
}

// TrialBalance is the closing-balance report across a company's ledgers.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}
