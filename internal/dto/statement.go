package dto

import (
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementLineResponse is one statement row: an entry plus the running
// balance after it, rendered with the Dr/Cr convention.
type StatementLineResponse struct {
	Entry          EntryResponse   `json:"entry"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	Display        string          `json:"display"` // e.g. "1300.00 Dr"
}

// StatementResponse defines the data returned for a ledger statement.
type StatementResponse struct {
	Ledger         LedgerResponse          `json:"ledger"`
	OpeningBalance decimal.Decimal         `json:"openingBalance"`
	OpeningDisplay string                  `json:"openingDisplay"`
	Lines          []StatementLineResponse `json:"lines"`
	ClosingBalance decimal.Decimal         `json:"closingBalance"`
	ClosingDisplay string                  `json:"closingDisplay"`
}

// ToStatementResponse converts a domain.Statement to StatementResponse DTO.
func ToStatementResponse(s *domain.Statement) StatementResponse {
	lines := make([]StatementLineResponse, len(s.Lines))
	for i, line := range s.Lines {
		lines[i] = StatementLineResponse{
			Entry:          ToEntryResponse(&line.Entry),
			RunningBalance: line.RunningBalance,
			Display:        line.Display,
		}
	}
	return StatementResponse{
		Ledger:         ToLedgerResponse(&s.Ledger),
		OpeningBalance: s.OpeningBalance,
		OpeningDisplay: domain.FormatBalance(s.OpeningBalance),
		Lines:          lines,
		ClosingBalance: s.ClosingBalance,
		ClosingDisplay: s.ClosingDisplay,
	}
}

// ListEntriesParams defines query parameters for listing raw ledger entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of entries with the token for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}
