package accounting

import (
	"fmt"
	"sort"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)
var hundred = decimal.NewFromInt(100)

// SplitGST applies the flat GST rule to a sub-total:
// totalGST = subTotal * rate/100, split into equal SGST and CGST halves,
// total = subTotal + totalGST. The halves are exact decimal halves; odd-cent
// remainders are not redistributed.
func SplitGST(subTotal, rate decimal.Decimal) (domain.TaxBreakup, error) {
	if subTotal.IsNegative() {
		return domain.TaxBreakup{}, fmt.Errorf("sub-total must not be negative, got %s", subTotal)
	}
	if rate.IsNegative() {
		return domain.TaxBreakup{}, fmt.Errorf("GST rate must not be negative, got %s", rate)
	}

	totalGST := subTotal.Mul(rate).Div(hundred)
	half := totalGST.Div(two)

	return domain.TaxBreakup{
		SubTotal: subTotal,
		Rate:     rate,
		SGST:     half,
		CGST:     half,
		TotalGST: totalGST,
		Total:    subTotal.Add(totalGST),
	}, nil
}

// ValidatePostingBalance checks that a generated set of journal lines keeps
// the books balanced: at least two lines, every line single-sided with a
// positive amount, and the debit sum exactly equal to the credit sum.
func ValidatePostingBalance(entries []domain.LedgerEntry) error {
	if len(entries) < 2 {
		return fmt.Errorf("posting must have at least two entry lines, got %d", len(entries))
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("invalid entry line for ledger %s: %w", e.LedgerID, err)
		}
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("entries do not balance: debit sum is %s, credit sum is %s",
			debits.String(), credits.String())
	}
	return nil
}

// BalanceChanges folds a set of entry lines into per-ledger net balance
// deltas using the debit-positive convention.
func BalanceChanges(entries []domain.LedgerEntry) map[string]decimal.Decimal {
	changes := make(map[string]decimal.Decimal, len(entries))
	for _, e := range entries {
		changes[e.LedgerID] = changes[e.LedgerID].Add(e.SignedAmount())
	}
	return changes
}

// FoldStatement computes the running-balance lines for one ledger from its
// opening balance and its journal entries. Entries are ordered by
// (entry date, insertion sequence) so replays are deterministic even when
// dates collide. The input slice is not modified.
func FoldStatement(openingBalance decimal.Decimal, entries []domain.LedgerEntry) []domain.StatementLine {
	ordered := make([]domain.LedgerEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].EntryDate.Equal(ordered[j].EntryDate) {
			return ordered[i].Seq < ordered[j].Seq
		}
		return ordered[i].EntryDate.Before(ordered[j].EntryDate)
	})

	lines := make([]domain.StatementLine, len(ordered))
	running := openingBalance
	for i, e := range ordered {
		running = running.Add(e.SignedAmount())
		lines[i] = domain.StatementLine{
			Entry:          e,
			RunningBalance: running,
			Side:           domain.SideOf(running),
			Display:        domain.FormatBalance(running),
		}
	}
	return lines
}
