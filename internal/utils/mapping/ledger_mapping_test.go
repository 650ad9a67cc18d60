package mapping_test

import (
	"testing"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/FurnBooks/furniture_books_app/internal/models"
	"github.com/FurnBooks/furniture_books_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// Round-trip conversions must be lossless: ledgers, entries and bills pass
// through the model layer and come back identical.

func TestLedgerRoundTrip(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
	d := domain.Ledger{
		LedgerID:       "led_1",
		CompanyID:      "comp_1",
		Name:           "Sharma Furniture House",
		Group:          domain.SundryDebtors,
		OpeningBalance: decimal.RequireFromString("1500.75"),
		Balance:        decimal.RequireFromString("-320.25"),
		Email:          "accounts@sharma.example",
		Address:        "14 MG Road, Jaipur",
		GSTIN:          "08ABCDE1234F1Z5",
		DealerID:       "DLR-042",
		IsSystem:       false,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: "user_1",
			LastUpdatedAt: now, LastUpdatedBy: "user_1",
		},
	}

	got := mapping.ToDomainLedger(mapping.ToModelLedger(d))
	assert.Equal(t, d, got)
}

func TestLedgerEntryRoundTrip(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
	d := domain.LedgerEntry{
		EntryID:    "ent_1",
		CompanyID:  "comp_1",
		LedgerID:   "led_1",
		LedgerName: "Sharma Furniture House",
		EntryDate:  now,
		Type:       domain.EntrySales,
		Details:    "Invoice INV-2025-001",
		Debit:      decimal.RequireFromString("1180.00"),
		Credit:     decimal.Zero,
		RefID:      "bill_1",
		Seq:        42,
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: "user_1",
			LastUpdatedAt: now, LastUpdatedBy: "user_1",
		},
	}

	got := mapping.ToDomainLedgerEntry(mapping.ToModelLedgerEntry(d))
	assert.Equal(t, d, got)
}

func TestBillRoundTrip(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
	d := domain.Bill{
		BillID:        "bill_1",
		CompanyID:     "comp_1",
		Kind:          domain.BillSales,
		Number:        "INV-2025-001",
		PartyLedgerID: "led_1",
		PartyName:     "Sharma Furniture House",
		BillDate:      now,
		SubTotal:      decimal.RequireFromString("1000"),
		TotalGSTRate:  decimal.RequireFromString("18"),
		SGSTAmount:    decimal.RequireFromString("90"),
		CGSTAmount:    decimal.RequireFromString("90"),
		TotalGST:      decimal.RequireFromString("180"),
		TotalAmount:   decimal.RequireFromString("1180"),
		Notes:         "6 teak chairs",
		Payments: []domain.Payment{{
			PaymentID:   "pay_1",
			BillID:      "bill_1",
			PaymentDate: now,
			Amount:      decimal.RequireFromString("500"),
			Method:      domain.MethodUPI,
			Reference:   "UTR123",
			AuditFields: domain.AuditFields{
				CreatedAt: now, CreatedBy: "user_1",
				LastUpdatedAt: now, LastUpdatedBy: "user_1",
			},
		}},
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: "user_1",
			LastUpdatedAt: now, LastUpdatedBy: "user_1",
		},
	}

	modelBill := mapping.ToModelBill(d)
	modelPayments := []models.Payment{mapping.ToModelPayment(d.Payments[0])}
	got := mapping.ToDomainBill(modelBill, modelPayments)
	assert.Equal(t, d, got)
}
