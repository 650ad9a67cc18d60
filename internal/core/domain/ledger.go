package domain

import (
	"github.com/shopspring/decimal"
)

// LedgerGroup classifies a ledger within the chart of accounts.
type LedgerGroup string

const (
	SundryDebtors    LedgerGroup = "SUNDRY_DEBTORS"
	SundryCreditors  LedgerGroup = "SUNDRY_CREDITORS"
	BankAccounts     LedgerGroup = "BANK_ACCOUNTS"
	CashInHand       LedgerGroup = "CASH_IN_HAND"
	SalesAccounts    LedgerGroup = "SALES_ACCOUNTS"
	PurchaseAccounts LedgerGroup = "PURCHASE_ACCOUNTS"
	DutiesAndTaxes   LedgerGroup = "DUTIES_AND_TAXES"
	DirectExpenses   LedgerGroup = "DIRECT_EXPENSES"
	IndirectExpenses LedgerGroup = "INDIRECT_EXPENSES"
	CapitalAccount   LedgerGroup = "CAPITAL_ACCOUNT"
)

// System ledger names, seeded once per company at company creation.
// Posting rules resolve them by name through the ledger repository and
// never create them ad hoc.
const (
	SystemSalesLedgerName    = "Sales Account"
	SystemPurchaseLedgerName = "Purchase Account"
	SystemCashLedgerName     = "Cash Account"
)

// ValidLedgerGroups lists every accepted ledger group.
var ValidLedgerGroups = []LedgerGroup{
	SundryDebtors, SundryCreditors, BankAccounts, CashInHand,
	SalesAccounts, PurchaseAccounts, DutiesAndTaxes,
	DirectExpenses, IndirectExpenses, CapitalAccount,
}

// IsValidLedgerGroup reports whether g is one of the fixed ledger groups.
func IsValidLedgerGroup(g LedgerGroup) bool {
	for _, v := range ValidLedgerGroups {
		if v == g {
			return true
		}
	}
	return false
}

// Ledger is a named bucket in the chart of accounts (customer, supplier,
// cash, sales, purchase, ...). OpeningBalance and Balance are signed with
// the debit-positive convention: a positive balance is a Dr balance.
type Ledger struct {
	LedgerID       string          `json:"ledgerID"`  // Primary key (UUID)
	CompanyID      string          `json:"companyID"` // FK -> companies.company_id
	Name           string          `json:"name"`      // Unique (case-insensitive) among active ledgers of a company
	Group          LedgerGroup     `json:"group"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Balance        decimal.Decimal `json:"balance"` // Persisted current balance, maintained under row locks
	Email          string          `json:"email"`
	Address        string          `json:"address"`
	GSTIN          string          `json:"gstin"`
	DealerID       string          `json:"dealerID"`
	IsSystem       bool            `json:"isSystem"` // Seeded sales/purchase/cash ledgers
	IsActive       bool            `json:"isActive"` // Ledgers are deactivated, never hard-deleted
	AuditFields
}
