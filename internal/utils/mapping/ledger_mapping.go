package mapping

import (
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/FurnBooks/furniture_books_app/internal/models"
)

// ToModelLedger converts a domain Ledger to a model Ledger.
func ToModelLedger(d domain.Ledger) models.Ledger {
	return models.Ledger{
		LedgerID:       d.LedgerID,
		CompanyID:      d.CompanyID,
		Name:           d.Name,
		LedgerGroup:    models.LedgerGroup(d.Group),
		OpeningBalance: d.OpeningBalance,
		Balance:        d.Balance,
		Email:          d.Email,
		Address:        d.Address,
		GSTIN:          d.GSTIN,
		DealerID:       d.DealerID,
		IsSystem:       d.IsSystem,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedger converts a model Ledger to a domain Ledger.
func ToDomainLedger(m models.Ledger) domain.Ledger {
	return domain.Ledger{
		LedgerID:       m.LedgerID,
		CompanyID:      m.CompanyID,
		Name:           m.Name,
		Group:          domain.LedgerGroup(m.LedgerGroup),
		OpeningBalance: m.OpeningBalance,
		Balance:        m.Balance,
		Email:          m.Email,
		Address:        m.Address,
		GSTIN:          m.GSTIN,
		DealerID:       m.DealerID,
		IsSystem:       m.IsSystem,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:     d.EntryID,
		CompanyID:   d.CompanyID,
		LedgerID:    d.LedgerID,
		LedgerName:  d.LedgerName,
		EntryDate:   d.EntryDate,
		EntryType:   models.EntryType(d.Type),
		Details:     d.Details,
		Debit:       d.Debit,
		Credit:      d.Credit,
		RefID:       d.RefID,
		Seq:         d.Seq,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     m.EntryID,
		CompanyID:   m.CompanyID,
		LedgerID:    m.LedgerID,
		LedgerName:  m.LedgerName,
		EntryDate:   m.EntryDate,
		Type:        domain.EntryType(m.EntryType),
		Details:     m.Details,
		Debit:       m.Debit,
		Credit:      m.Credit,
		RefID:       m.RefID,
		Seq:         m.Seq,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model entries to domain entries.
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainLedgerEntry(m)
	}
	return out
}
