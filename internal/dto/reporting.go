package dto

import (
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	LedgerID   string          `json:"ledgerID"`
	LedgerName string          `json:"ledgerName"`
	Group      string          `json:"group"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(tb *domain.TrialBalance, asOf time.Time) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf: asOf.Format("2006-01-02"),
		Rows: make([]TrialBalanceRowResponse, len(tb.Rows)),
	}
	for i, row := range tb.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			LedgerID:   row.LedgerID,
			LedgerName: row.LedgerName,
			Group:      string(row.Group),
			Debit:      row.Debit,
			Credit:     row.Credit,
		}
	}
	response.Totals.Debit = tb.TotalDebit
	response.Totals.Credit = tb.TotalCredit
	return response
}

// GSTRateSummaryResponse represents one rate bucket of the GST summary
type GSTRateSummaryResponse struct {
	Rate         decimal.Decimal `json:"rate"`
	TaxableValue decimal.Decimal `json:"taxableValue"`
	SGST         decimal.Decimal `json:"sgst"`
	CGST         decimal.Decimal `json:"cgst"`
	TotalTax     decimal.Decimal `json:"totalTax"`
	BillCount    int             `json:"billCount"`
}

// GSTSummaryResponse represents the GST period summary response
type GSTSummaryResponse struct {
	FromDate   string                   `json:"fromDate"`
	ToDate     string                   `json:"toDate"`
	Outward    []GSTRateSummaryResponse `json:"outward"`
	Inward     []GSTRateSummaryResponse `json:"inward"`
	NetPayable decimal.Decimal          `json:"netPayable"`
}

// ToGSTSummaryResponse converts a domain GST summary to a DTO response
func ToGSTSummaryResponse(s *domain.GSTSummary) GSTSummaryResponse {
	toRows := func(rows []domain.GSTRateSummary) []GSTRateSummaryResponse {
		out := make([]GSTRateSummaryResponse, len(rows))
		for i, r := range rows {
			out[i] = GSTRateSummaryResponse{
				Rate:         r.Rate,
				TaxableValue: r.TaxableValue,
				SGST:         r.SGST,
				CGST:         r.CGST,
				TotalTax:     r.TotalTax,
				BillCount:    r.BillCount,
			}
		}
		return out
	}
	return GSTSummaryResponse{
		FromDate:   s.From.Format("2006-01-02"),
		ToDate:     s.To.Format("2006-01-02"),
		Outward:    toRows(s.Outward),
		Inward:     toRows(s.Inward),
		NetPayable: s.NetPayable,
	}
}
