package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	portssvc "github.com/FurnBooks/furniture_books_app/internal/core/ports/services"
	"github.com/FurnBooks/furniture_books_app/internal/dto"
	"github.com/FurnBooks/furniture_books_app/internal/middleware"
	"github.com/FurnBooks/furniture_books_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPosting      = errors.New("posting is invalid")
	ErrUnbalancedPosting   = errors.New("posting entries do not balance")
	ErrLedgerNotFound      = errors.New("ledger not found")
	ErrBillKindMismatch    = errors.New("bill kind does not match the operation")
	ErrDuplicateBillNumber = errors.New("bill number already in use")
	ErrAlreadyReversed     = errors.New("posting has already been reversed")
)

// reversalRefPrefix marks the entries of a reversal posting. A reversal's
// RefID is the original RefID with this prefix, which also makes a second
// reversal of the same posting detectable.
const reversalRefPrefix = "REV-"

// postingService derives balanced entry pairs from business documents and
// persists document, entries and balance updates atomically.
type postingService struct {
	postingRepo portsrepo.PostingRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	billRepo    portsrepo.BillRepositoryFacade
	companySvc  portssvc.CompanySvcFacade
}

// NewPostingService creates a new PostingService.
func NewPostingService(postingRepo portsrepo.PostingRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, billRepo portsrepo.BillRepositoryFacade, companySvc portssvc.CompanySvcFacade) portssvc.PostingSvcFacade {
	return &postingService{
		postingRepo: postingRepo,
		ledgerRepo:  ledgerRepo,
		billRepo:    billRepo,
		companySvc:  companySvc,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// partyLedger fetches and validates the party side of a posting.
func (s *postingService) partyLedger(ctx context.Context, companyID, ledgerID string) (*domain.Ledger, error) {
	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", ErrLedgerNotFound, ledgerID)
		}
		return nil, fmt.Errorf("failed to fetch ledger %s: %w", ledgerID, err)
	}
	if ledger.CompanyID != companyID {
		// Obscure existence across tenants
		return nil, fmt.Errorf("%w: ID %s", ErrLedgerNotFound, ledgerID)
	}
	if !ledger.IsActive {
		return nil, fmt.Errorf("%w: ledger %s is inactive", ErrInvalidPosting, ledgerID)
	}
	return ledger, nil
}

// systemLedger resolves one of the seeded system ledgers by name.
func (s *postingService) systemLedger(ctx context.Context, companyID, name string) (*domain.Ledger, error) {
	ledger, err := s.ledgerRepo.FindLedgerByName(ctx, companyID, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Seeded at company creation; missing means broken setup, not user error.
			return nil, fmt.Errorf("system ledger %q missing for company %s: %w", name, companyID, apperrors.ErrInternal)
		}
		return nil, fmt.Errorf("failed to fetch system ledger %q: %w", name, err)
	}
	return ledger, nil
}

// checkBillNumberFree guards against re-posting the same document number.
func (s *postingService) checkBillNumberFree(ctx context.Context, companyID string, kind domain.BillKind, number string) error {
	existing, err := s.billRepo.FindBillByNumber(ctx, companyID, kind, number)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check bill number: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: %s %s", ErrDuplicateBillNumber, kind, number)
	}
	return nil
}

// entryPair builds the two balanced lines of a posting. The debit and credit
// ledgers receive the same amount, so the pair balances by construction; it
// is still re-validated before persistence.
func entryPair(companyID string, entryType domain.EntryType, entryDate time.Time, details, refID string, debitLedger, creditLedger *domain.Ledger, amount decimal.Decimal, audit domain.AuditFields) []domain.LedgerEntry {
	return []domain.LedgerEntry{
		{
			EntryID:     uuid.NewString(),
			CompanyID:   companyID,
			LedgerID:    debitLedger.LedgerID,
			LedgerName:  debitLedger.Name,
			EntryDate:   entryDate,
			Type:        entryType,
			Details:     details,
			Debit:       amount,
			RefID:       refID,
			AuditFields: audit,
		},
		{
			EntryID:     uuid.NewString(),
			CompanyID:   companyID,
			LedgerID:    creditLedger.LedgerID,
			LedgerName:  creditLedger.Name,
			EntryDate:   entryDate,
			Type:        entryType,
			Details:     details,
			Credit:      amount,
			RefID:       refID,
			AuditFields: audit,
		},
	}
}

// PostSalesInvoice records a sales invoice. The bill (with its GST breakup)
// and the customer/sales entry pair are written in one transaction.
func (s *postingService) PostSalesInvoice(ctx context.Context, companyID string, req dto.CreateSalesInvoiceRequest, userID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for PostSalesInvoice", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	breakup, err := accounting.SplitGST(req.SubTotal, req.GSTRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosting, err)
	}
	if err := s.checkBillNumberFree(ctx, companyID, domain.BillSales, req.Number); err != nil {
		return nil, err
	}

	customer, err := s.partyLedger(ctx, companyID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	salesLedger, err := s.systemLedger(ctx, companyID, domain.SystemSalesLedgerName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	bill := domain.Bill{
		BillID:        uuid.NewString(),
		CompanyID:     companyID,
		Kind:          domain.BillSales,
		Number:        req.Number,
		PartyLedgerID: customer.LedgerID,
		PartyName:     customer.Name,
		BillDate:      req.InvoiceDate,
		SubTotal:      breakup.SubTotal,
		TotalGSTRate:  breakup.Rate,
		SGSTAmount:    breakup.SGST,
		CGSTAmount:    breakup.CGST,
		TotalGST:      breakup.TotalGST,
		TotalAmount:   breakup.Total,
		Notes:         req.Notes,
		AuditFields:   audit,
	}

	details := fmt.Sprintf("Sales Invoice %s - %s", bill.Number, bill.PartyName)
	entries := entryPair(companyID, domain.EntrySales, bill.BillDate, details, bill.BillID, customer, salesLedger, bill.TotalAmount, audit)

	var payment *domain.Payment
	if req.InitialPayment != nil {
		p := domain.Payment{
			PaymentID:   uuid.NewString(),
			BillID:      bill.BillID,
			PaymentDate: bill.BillDate,
			Amount:      req.InitialPayment.Amount,
			Method:      req.InitialPayment.Method,
			Reference:   req.InitialPayment.Reference,
			AuditFields: audit,
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPosting, err)
		}
		cashLedger, err := s.systemLedger(ctx, companyID, domain.SystemCashLedgerName)
		if err != nil {
			return nil, err
		}
		receiptDetails := fmt.Sprintf("Receipt against %s", bill.Number)
		entries = append(entries, entryPair(companyID, domain.EntryReceipt, bill.BillDate, receiptDetails, p.PaymentID, cashLedger, customer, p.Amount, audit)...)
		payment = &p
	}

	if err := accounting.ValidatePostingBalance(entries); err != nil {
		logger.Error("Generated sales posting failed balance validation", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrUnbalancedPosting, err)
	}

	if err := s.postingRepo.SavePosting(ctx, entries, &bill, payment, accounting.BalanceChanges(entries)); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicateBillNumber, bill.Kind, bill.Number)
		}
		logger.Error("Failed to save sales posting", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save sales posting: %w", err)
	}

	if payment != nil {
		bill.Payments = []domain.Payment{*payment}
	}
	logger.Info("Sales invoice posted", slog.String("bill_id", bill.BillID), slog.String("number", bill.Number), slog.String("company_id", companyID))
	return &bill, nil
}

// PostPurchaseBill records a purchase bill: purchases are debited, the
// supplier is credited. Mirrors PostSalesInvoice.
func (s *postingService) PostPurchaseBill(ctx context.Context, companyID string, req dto.CreatePurchaseBillRequest, userID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for PostPurchaseBill", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	breakup, err := accounting.SplitGST(req.SubTotal, req.GSTRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosting, err)
	}
	if err := s.checkBillNumberFree(ctx, companyID, domain.BillPurchase, req.Number); err != nil {
		return nil, err
	}

	supplier, err := s.partyLedger(ctx, companyID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	purchaseLedger, err := s.systemLedger(ctx, companyID, domain.SystemPurchaseLedgerName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	bill := domain.Bill{
		BillID:        uuid.NewString(),
		CompanyID:     companyID,
		Kind:          domain.BillPurchase,
		Number:        req.Number,
		PartyLedgerID: supplier.LedgerID,
		PartyName:     supplier.Name,
		BillDate:      req.BillDate,
		SubTotal:      breakup.SubTotal,
		TotalGSTRate:  breakup.Rate,
		SGSTAmount:    breakup.SGST,
		CGSTAmount:    breakup.CGST,
		TotalGST:      breakup.TotalGST,
		TotalAmount:   breakup.Total,
		Notes:         req.Notes,
		AuditFields:   audit,
	}

	details := fmt.Sprintf("Purchase Bill %s - %s", bill.Number, bill.PartyName)
	entries := entryPair(companyID, domain.EntryPurchase, bill.BillDate, details, bill.BillID, purchaseLedger, supplier, bill.TotalAmount, audit)

	var payment *domain.Payment
	if req.InitialPayment != nil {
		p := domain.Payment{
			PaymentID:   uuid.NewString(),
			BillID:      bill.BillID,
			PaymentDate: bill.BillDate,
			Amount:      req.InitialPayment.Amount,
			Method:      req.InitialPayment.Method,
			Reference:   req.InitialPayment.Reference,
			AuditFields: audit,
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPosting, err)
		}
		cashLedger, err := s.systemLedger(ctx, companyID, domain.SystemCashLedgerName)
		if err != nil {
			return nil, err
		}
		paymentDetails := fmt.Sprintf("Payment against %s", bill.Number)
		entries = append(entries, entryPair(companyID, domain.EntryPayment, bill.BillDate, paymentDetails, p.PaymentID, supplier, cashLedger, p.Amount, audit)...)
		payment = &p
	}

	if err := accounting.ValidatePostingBalance(entries); err != nil {
		logger.Error("Generated purchase posting failed balance validation", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrUnbalancedPosting, err)
	}

	if err := s.postingRepo.SavePosting(ctx, entries, &bill, payment, accounting.BalanceChanges(entries)); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicateBillNumber, bill.Kind, bill.Number)
		}
		logger.Error("Failed to save purchase posting", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save purchase posting: %w", err)
	}

	if payment != nil {
		bill.Payments = []domain.Payment{*payment}
	}
	logger.Info("Purchase bill posted", slog.String("bill_id", bill.BillID), slog.String("number", bill.Number), slog.String("company_id", companyID))
	return &bill, nil
}

// settleBill is the shared receipt/payment flow. It appends the payment to
// the bill and writes the money-movement entry pair in the same transaction,
// so the journal and the bill can never disagree.
func (s *postingService) settleBill(ctx context.Context, companyID, billID string, wantKind domain.BillKind, entryType domain.EntryType, when time.Time, details dto.PaymentDetails, userID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for bill settlement", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	bill, err := s.billRepo.FindBillByID(ctx, companyID, billID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch bill for settlement", slog.String("bill_id", billID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	if bill.Kind != wantKind {
		return nil, fmt.Errorf("%w: bill %s is %s", ErrBillKindMismatch, billID, bill.Kind)
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	p := domain.Payment{
		PaymentID:   uuid.NewString(),
		BillID:      bill.BillID,
		PaymentDate: when,
		Amount:      details.Amount,
		Method:      details.Method,
		Reference:   details.Reference,
		AuditFields: audit,
	}

	updated, err := bill.WithPayment(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosting, err)
	}

	// Overpayment is accepted; the derived balance due goes negative and the
	// statement shows the party owing money back.
	if settlement := bill.Settlement(); p.Amount.GreaterThan(settlement.BalanceDue) {
		logger.Warn("Payment exceeds balance due",
			slog.String("bill_id", bill.BillID),
			slog.String("amount", p.Amount.String()),
			slog.String("balance_due", settlement.BalanceDue.String()))
	}

	party, err := s.partyLedger(ctx, companyID, bill.PartyLedgerID)
	if err != nil {
		return nil, err
	}
	cashLedger, err := s.systemLedger(ctx, companyID, domain.SystemCashLedgerName)
	if err != nil {
		return nil, err
	}

	var entries []domain.LedgerEntry
	if entryType == domain.EntryReceipt {
		entryDetails := fmt.Sprintf("Receipt against %s", bill.Number)
		entries = entryPair(companyID, entryType, when, entryDetails, p.PaymentID, cashLedger, party, p.Amount, audit)
	} else {
		entryDetails := fmt.Sprintf("Payment against %s", bill.Number)
		entries = entryPair(companyID, entryType, when, entryDetails, p.PaymentID, party, cashLedger, p.Amount, audit)
	}

	if err := accounting.ValidatePostingBalance(entries); err != nil {
		logger.Error("Generated settlement posting failed balance validation", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrUnbalancedPosting, err)
	}

	if err := s.postingRepo.SavePosting(ctx, entries, nil, &p, accounting.BalanceChanges(entries)); err != nil {
		logger.Error("Failed to save settlement posting", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save settlement posting: %w", err)
	}

	settlement := updated.Settlement()
	logger.Info("Bill settlement recorded",
		slog.String("bill_id", bill.BillID),
		slog.String("payment_id", p.PaymentID),
		slog.String("status", string(settlement.PaymentStatus)))
	return &updated, nil
}

// PostReceipt records money received against a sales bill.
func (s *postingService) PostReceipt(ctx context.Context, companyID string, req dto.CreateReceiptRequest, userID string) (*domain.Bill, error) {
	return s.settleBill(ctx, companyID, req.BillID, domain.BillSales, domain.EntryReceipt, req.ReceiptDate, req.Payment, userID)
}

// PostPayment records money paid against a purchase bill.
func (s *postingService) PostPayment(ctx context.Context, companyID string, req dto.CreatePaymentRequest, userID string) (*domain.Bill, error) {
	return s.settleBill(ctx, companyID, req.BillID, domain.BillPurchase, domain.EntryPayment, req.PaymentDate, req.Payment, userID)
}

// ReversePosting writes offsetting entries for a prior posting. The original
// entries stay untouched; the journal is append-only.
func (s *postingService) ReversePosting(ctx context.Context, companyID string, refID string, userID string) ([]domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for ReversePosting", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	if strings.HasPrefix(refID, reversalRefPrefix) {
		return nil, fmt.Errorf("%w: cannot reverse a reversal", apperrors.ErrConflict)
	}

	original, err := s.ledgerRepo.FindEntriesByRefID(ctx, companyID, refID)
	if err != nil {
		logger.Error("Failed to fetch entries for reversal", slog.String("ref_id", refID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve posting %s: %w", refID, err)
	}
	if len(original) == 0 {
		return nil, fmt.Errorf("%w: posting %s", apperrors.ErrNotFound, refID)
	}

	reversalRefID := reversalRefPrefix + refID
	existing, err := s.ledgerRepo.FindEntriesByRefID(ctx, companyID, reversalRefID)
	if err != nil {
		logger.Error("Failed to check for prior reversal", slog.String("ref_id", refID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check for prior reversal of %s: %w", refID, err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: posting %s", ErrAlreadyReversed, refID)
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	reversed := make([]domain.LedgerEntry, len(original))
	for i, e := range original {
		reversed[i] = domain.LedgerEntry{
			EntryID:     uuid.NewString(),
			CompanyID:   e.CompanyID,
			LedgerID:    e.LedgerID,
			LedgerName:  e.LedgerName,
			EntryDate:   e.EntryDate,
			Type:        e.Type,
			Details:     "Reversal of " + e.Details,
			Debit:       e.Credit,
			Credit:      e.Debit,
			RefID:       reversalRefID,
			AuditFields: audit,
		}
	}

	if err := accounting.ValidatePostingBalance(reversed); err != nil {
		logger.Error("Generated reversal failed balance validation", slog.String("ref_id", refID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrUnbalancedPosting, err)
	}

	if err := s.postingRepo.SavePosting(ctx, reversed, nil, nil, accounting.BalanceChanges(reversed)); err != nil {
		logger.Error("Failed to save reversal posting", slog.String("ref_id", refID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reversal posting: %w", err)
	}

	logger.Info("Posting reversed", slog.String("ref_id", refID), slog.String("reversal_ref_id", reversalRefID))
	return reversed, nil
}

// GetPostingByRefID retrieves all entries that share a reference ID.
func (s *postingService) GetPostingByRefID(ctx context.Context, companyID string, refID string, userID string) ([]domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetPostingByRefID", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	entries, err := s.ledgerRepo.FindEntriesByRefID(ctx, companyID, refID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve posting %s: %w", refID, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: posting %s", apperrors.ErrNotFound, refID)
	}
	return entries, nil
}
