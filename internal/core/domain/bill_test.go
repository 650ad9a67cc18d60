package domain_test

import (
	"testing"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func payment(billID, amount string) domain.Payment {
	return domain.Payment{
		PaymentID:   "pay_" + amount,
		BillID:      billID,
		PaymentDate: time.Now(),
		Amount:      dec(amount),
		Method:      domain.MethodCash,
	}
}

func TestBill_Settlement(t *testing.T) {
	tests := []struct {
		name           string
		totalAmount    string
		payments       []string
		wantPaid       string
		wantBalanceDue string
		wantStatus     domain.PaymentStatus
	}{
		{
			name:           "no payments defaults to unpaid",
			totalAmount:    "750",
			payments:       nil,
			wantPaid:       "0",
			wantBalanceDue: "750",
			wantStatus:     domain.StatusUnpaid,
		},
		{
			name:           "single full payment settles",
			totalAmount:    "500",
			payments:       []string{"500"},
			wantPaid:       "500",
			wantBalanceDue: "0",
			wantStatus:     domain.StatusPaid,
		},
		{
			name:           "split payments reach the same end state",
			totalAmount:    "500",
			payments:       []string{"200", "300"},
			wantPaid:       "500",
			wantBalanceDue: "0",
			wantStatus:     domain.StatusPaid,
		},
		{
			name:           "partial payment",
			totalAmount:    "1180",
			payments:       []string{"1000"},
			wantPaid:       "1000",
			wantBalanceDue: "180",
			wantStatus:     domain.StatusPartiallyPaid,
		},
		{
			name:           "residual within tolerance counts as paid",
			totalAmount:    "100",
			payments:       []string{"99.99"},
			wantPaid:       "99.99",
			wantBalanceDue: "0.01",
			wantStatus:     domain.StatusPaid,
		},
		{
			name:           "overpayment produces negative balance due but stays paid",
			totalAmount:    "100",
			payments:       []string{"150"},
			wantPaid:       "150",
			wantBalanceDue: "-50",
			wantStatus:     domain.StatusPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := domain.Bill{BillID: "bill_1", TotalAmount: dec(tt.totalAmount)}
			for _, amt := range tt.payments {
				var err error
				bill, err = bill.WithPayment(payment("bill_1", amt))
				require.NoError(t, err)
			}

			s := bill.Settlement()
			assert.True(t, dec(tt.wantPaid).Equal(s.PaidAmount), "paid: want %s got %s", tt.wantPaid, s.PaidAmount)
			assert.True(t, dec(tt.wantBalanceDue).Equal(s.BalanceDue), "due: want %s got %s", tt.wantBalanceDue, s.BalanceDue)
			assert.Equal(t, tt.wantStatus, s.PaymentStatus)
		})
	}
}

func TestBill_Settlement_ReplayOrderIndependent(t *testing.T) {
	amounts := []string{"100", "250.50", "149.50"}
	forward := domain.Bill{BillID: "bill_1", TotalAmount: dec("500")}
	backward := domain.Bill{BillID: "bill_1", TotalAmount: dec("500")}

	var err error
	for _, a := range amounts {
		forward, err = forward.WithPayment(payment("bill_1", a))
		require.NoError(t, err)
	}
	for i := len(amounts) - 1; i >= 0; i-- {
		backward, err = backward.WithPayment(payment("bill_1", amounts[i]))
		require.NoError(t, err)
	}

	fs, bs := forward.Settlement(), backward.Settlement()
	assert.True(t, fs.PaidAmount.Equal(bs.PaidAmount))
	assert.True(t, fs.BalanceDue.Equal(bs.BalanceDue))
	assert.Equal(t, fs.PaymentStatus, bs.PaymentStatus)
	assert.Equal(t, domain.StatusPaid, fs.PaymentStatus)
}

func TestBill_WithPayment(t *testing.T) {
	bill := domain.Bill{BillID: "bill_1", TotalAmount: dec("100")}

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := bill.WithPayment(payment("bill_1", "0"))
		assert.Error(t, err)
	})

	t.Run("rejects mismatched bill reference", func(t *testing.T) {
		_, err := bill.WithPayment(payment("bill_2", "50"))
		assert.Error(t, err)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		p := payment("bill_1", "50")
		p.Method = "CHEQUE"
		_, err := bill.WithPayment(p)
		assert.Error(t, err)
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		updated, err := bill.WithPayment(payment("bill_1", "50"))
		require.NoError(t, err)
		assert.Len(t, updated.Payments, 1)
		assert.Len(t, bill.Payments, 0)
	})
}

func TestLedgerEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   domain.LedgerEntry
		wantErr bool
	}{
		{
			name:    "valid debit line",
			entry:   domain.LedgerEntry{LedgerID: "led_1", Debit: dec("100"), Credit: decimal.Zero},
			wantErr: false,
		},
		{
			name:    "valid credit line",
			entry:   domain.LedgerEntry{LedgerID: "led_1", Debit: decimal.Zero, Credit: dec("100")},
			wantErr: false,
		},
		{
			name:    "both sides set",
			entry:   domain.LedgerEntry{LedgerID: "led_1", Debit: dec("100"), Credit: dec("100")},
			wantErr: true,
		},
		{
			name:    "neither side set",
			entry:   domain.LedgerEntry{LedgerID: "led_1"},
			wantErr: true,
		},
		{
			name:    "negative amount",
			entry:   domain.LedgerEntry{LedgerID: "led_1", Debit: dec("-5")},
			wantErr: true,
		},
		{
			name:    "missing ledger",
			entry:   domain.LedgerEntry{Debit: dec("100")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "1300.00 Dr", domain.FormatBalance(dec("1300")))
	assert.Equal(t, "250.50 Cr", domain.FormatBalance(dec("-250.5")))
	assert.Equal(t, "0.00 Dr", domain.FormatBalance(decimal.Zero))
}
