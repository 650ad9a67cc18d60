package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GSTRateSummary aggregates taxable value and tax amounts for a single GST rate.
type GSTRateSummary struct {
	Rate         decimal.Decimal `json:"rate"`
	TaxableValue decimal.Decimal `json:"taxableValue"`
	SGST         decimal.Decimal `json:"sgst"`
	CGST         decimal.Decimal `json:"cgst"`
	TotalTax     decimal.Decimal `json:"totalTax"`
	BillCount    int             `json:"billCount"`
}

// GSTSummary is a period summary of GST collected on outward supplies (sales)
// and paid on inward supplies (purchases), grouped by rate.
type GSTSummary struct {
	CompanyID  string           `json:"companyID"`
	From       time.Time        `json:"from"`
	To         time.Time        `json:"to"`
	Outward    []GSTRateSummary `json:"outward"`
	Inward     []GSTRateSummary `json:"inward"`
	NetPayable decimal.Decimal  `json:"netPayable"`
}
