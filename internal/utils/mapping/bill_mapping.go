package mapping

import (
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/FurnBooks/furniture_books_app/internal/models"
)

// ToModelBill converts a domain Bill (header only) to a model Bill.
// Payments live in their own table and are mapped separately.
func ToModelBill(d domain.Bill) models.Bill {
	return models.Bill{
		BillID:        d.BillID,
		CompanyID:     d.CompanyID,
		Kind:          models.BillKind(d.Kind),
		Number:        d.Number,
		PartyLedgerID: d.PartyLedgerID,
		PartyName:     d.PartyName,
		BillDate:      d.BillDate,
		SubTotal:      d.SubTotal,
		TotalGSTRate:  d.TotalGSTRate,
		SGSTAmount:    d.SGSTAmount,
		CGSTAmount:    d.CGSTAmount,
		TotalGST:      d.TotalGST,
		TotalAmount:   d.TotalAmount,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBill converts a model Bill and its payments to a domain Bill.
func ToDomainBill(m models.Bill, payments []models.Payment) domain.Bill {
	return domain.Bill{
		BillID:        m.BillID,
		CompanyID:     m.CompanyID,
		Kind:          domain.BillKind(m.Kind),
		Number:        m.Number,
		PartyLedgerID: m.PartyLedgerID,
		PartyName:     m.PartyName,
		BillDate:      m.BillDate,
		SubTotal:      m.SubTotal,
		TotalGSTRate:  m.TotalGSTRate,
		SGSTAmount:    m.SGSTAmount,
		CGSTAmount:    m.CGSTAmount,
		TotalGST:      m.TotalGST,
		TotalAmount:   m.TotalAmount,
		Notes:         m.Notes,
		Payments:      ToDomainPaymentSlice(payments),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPayment converts a domain Payment to a model Payment.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:   d.PaymentID,
		BillID:      d.BillID,
		PaymentDate: d.PaymentDate,
		Amount:      d.Amount,
		Method:      models.PaymentMethod(d.Method),
		Reference:   d.Reference,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		BillID:      m.BillID,
		PaymentDate: m.PaymentDate,
		Amount:      m.Amount,
		Method:      domain.PaymentMethod(m.Method),
		Reference:   m.Reference,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSlice converts a slice of model payments to domain payments.
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	out := make([]domain.Payment, len(ms))
	for i, m := range ms {
		out[i] = ToDomainPayment(m)
	}
	return out
}
