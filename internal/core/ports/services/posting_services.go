package services

import (
	"context"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
)

// PostingReaderSvc defines read operations for posted entry sets
type PostingReaderSvc interface {
	// GetPostingByRefID retrieves all ledger entries that share a reference ID.
	GetPostingByRefID(ctx context.Context, companyID string, refID string, userID string) ([]domain.LedgerEntry, error)
}

// PostingWriterSvc defines the bookkeeping operations. Each one derives a
// balanced set of ledger entries from its source document and persists the
// document, the entries and the balance updates atomically.
type PostingWriterSvc interface {
	// PostSalesInvoice records a sales invoice: debits the customer, credits sales.
	PostSalesInvoice(ctx context.Context, companyID string, req dto.CreateSalesInvoiceRequest, userID string) (*domain.Bill, error)

	// PostPurchaseBill records a purchase bill: debits purchases, credits the supplier.
	PostPurchaseBill(ctx context.Context, companyID string, req dto.CreatePurchaseBillRequest, userID string) (*domain.Bill, error)

	// PostReceipt records money received against a sales bill: debits cash, credits the customer.
	PostReceipt(ctx context.Context, companyID string, req dto.CreateReceiptRequest, userID string) (*domain.Bill, error)

	// PostPayment records money paid against a purchase bill: debits the supplier, credits cash.
	PostPayment(ctx context.Context, companyID string, req dto.CreatePaymentRequest, userID string) (*domain.Bill, error)

	// ReversePosting creates contra entries for an existing posting, identified by its reference ID.
	ReversePosting(ctx context.Context, companyID string, refID string, userID string) ([]domain.LedgerEntry, error)
}

// PostingSvcFacade combines all posting-related service interfaces
type PostingSvcFacade interface {
	PostingReaderSvc
	PostingWriterSvc
}
