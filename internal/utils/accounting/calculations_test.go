package accounting_test

import (
	"testing"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/FurnBooks/furniture_books_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSplitGST(t *testing.T) {
	t.Run("reference split", func(t *testing.T) {
		b, err := accounting.SplitGST(dec("1000"), dec("18"))
		require.NoError(t, err)
		assert.Equal(t, "180.00", b.TotalGST.StringFixed(2))
		assert.Equal(t, "90.00", b.SGST.StringFixed(2))
		assert.Equal(t, "90.00", b.CGST.StringFixed(2))
		assert.Equal(t, "1180.00", b.Total.StringFixed(2))
	})

	t.Run("halves always sum to the total GST", func(t *testing.T) {
		// Odd-cent total: 12345.67 * 5% = 617.2835
		b, err := accounting.SplitGST(dec("12345.67"), dec("5"))
		require.NoError(t, err)
		assert.True(t, b.SGST.Add(b.CGST).Equal(b.TotalGST))
		assert.True(t, b.SGST.Equal(b.CGST))
		assert.True(t, b.SubTotal.Add(b.TotalGST).Equal(b.Total))
	})

	t.Run("half-paisa halves keep full precision", func(t *testing.T) {
		// 3429.35 * 18% = 617.283; the halves carry the half-paisa exactly
		// and are persisted as-is, not rounded to a column scale.
		b, err := accounting.SplitGST(dec("3429.35"), dec("18"))
		require.NoError(t, err)
		assert.True(t, b.TotalGST.Equal(dec("617.283")))
		assert.True(t, b.SGST.Equal(dec("308.6415")))
		assert.True(t, b.CGST.Equal(dec("308.6415")))
		assert.True(t, b.SGST.Add(b.CGST).Equal(b.TotalGST))
	})

	t.Run("zero rate", func(t *testing.T) {
		b, err := accounting.SplitGST(dec("500"), decimal.Zero)
		require.NoError(t, err)
		assert.True(t, b.TotalGST.IsZero())
		assert.True(t, b.Total.Equal(dec("500")))
	})

	t.Run("negative inputs rejected", func(t *testing.T) {
		_, err := accounting.SplitGST(dec("-1"), dec("18"))
		assert.Error(t, err)
		_, err = accounting.SplitGST(dec("100"), dec("-18"))
		assert.Error(t, err)
	})
}

func TestValidatePostingBalance(t *testing.T) {
	debit := func(led, amt string) domain.LedgerEntry {
		return domain.LedgerEntry{LedgerID: led, Debit: dec(amt)}
	}
	credit := func(led, amt string) domain.LedgerEntry {
		return domain.LedgerEntry{LedgerID: led, Credit: dec(amt)}
	}

	tests := []struct {
		name    string
		entries []domain.LedgerEntry
		wantErr bool
	}{
		{
			name:    "balanced pair",
			entries: []domain.LedgerEntry{debit("customer", "1180"), credit("sales", "1180")},
			wantErr: false,
		},
		{
			name: "balanced multi-line",
			entries: []domain.LedgerEntry{
				debit("customer", "1180"),
				credit("sales", "1000"),
				credit("gst", "180"),
			},
			wantErr: false,
		},
		{
			name:    "unbalanced pair",
			entries: []domain.LedgerEntry{debit("customer", "1180"), credit("sales", "1000")},
			wantErr: true,
		},
		{
			name:    "single line",
			entries: []domain.LedgerEntry{debit("customer", "1180")},
			wantErr: true,
		},
		{
			name:    "double-sided line",
			entries: []domain.LedgerEntry{{LedgerID: "a", Debit: dec("10"), Credit: dec("10")}, credit("b", "0")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidatePostingBalance(tt.entries)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBalanceChanges(t *testing.T) {
	entries := []domain.LedgerEntry{
		{LedgerID: "customer", Debit: dec("1180")},
		{LedgerID: "sales", Credit: dec("1180")},
		{LedgerID: "customer", Credit: dec("500")},
	}
	changes := accounting.BalanceChanges(entries)
	assert.True(t, changes["customer"].Equal(dec("680")))
	assert.True(t, changes["sales"].Equal(dec("-1180")))
}

func TestFoldStatement(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, time.April, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("reference fold", func(t *testing.T) {
		entries := []domain.LedgerEntry{
			{EntryID: "e1", EntryDate: day(1), Seq: 1, Debit: dec("500")},
			{EntryID: "e2", EntryDate: day(2), Seq: 2, Credit: dec("200")},
		}
		lines := accounting.FoldStatement(dec("1000"), entries)
		require.Len(t, lines, 2)
		assert.Equal(t, "1500.00 Dr", lines[0].Display)
		assert.Equal(t, "1300.00 Dr", lines[1].Display)
	})

	t.Run("equal dates break ties on insertion order", func(t *testing.T) {
		entries := []domain.LedgerEntry{
			{EntryID: "later", EntryDate: day(1), Seq: 9, Credit: dec("100")},
			{EntryID: "earlier", EntryDate: day(1), Seq: 3, Debit: dec("50")},
		}
		lines := accounting.FoldStatement(decimal.Zero, entries)
		require.Len(t, lines, 2)
		assert.Equal(t, "earlier", lines[0].Entry.EntryID)
		assert.Equal(t, "later", lines[1].Entry.EntryID)
		assert.Equal(t, "50.00 Dr", lines[0].Display)
		assert.Equal(t, "50.00 Cr", lines[1].Display)
	})

	t.Run("credit balance reports Cr side", func(t *testing.T) {
		entries := []domain.LedgerEntry{
			{EntryID: "e1", EntryDate: day(1), Seq: 1, Credit: dec("300")},
		}
		lines := accounting.FoldStatement(decimal.Zero, entries)
		require.Len(t, lines, 1)
		assert.Equal(t, domain.SideCredit, lines[0].Side)
		assert.Equal(t, "300.00 Cr", lines[0].Display)
	})

	t.Run("empty journal yields no lines", func(t *testing.T) {
		assert.Empty(t, accounting.FoldStatement(dec("1000"), nil))
	})
}
