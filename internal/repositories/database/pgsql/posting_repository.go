package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	"github.com/FurnBooks/furniture_books_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxPostingRepository struct {
	BaseRepository
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// newPgxPostingRepository creates a new repository for atomic posting writes.
func newPgxPostingRepository(pool *pgxpool.Pool, ledgerRepo portsrepo.LedgerRepositoryFacade) portsrepo.PostingRepositoryWithTx {
	return &PgxPostingRepository{
		BaseRepository: BaseRepository{Pool: pool},
		ledgerRepo:     ledgerRepo,
	}
}

// Ensure PgxPostingRepository implements portsrepo.PostingRepositoryWithTx
var _ portsrepo.PostingRepositoryWithTx = (*PgxPostingRepository)(nil)

// SavePosting persists the entries, the optional bill, the optional payment,
// and the resulting ledger balance changes within a single DB transaction.
// The seq column is a bigserial, so entry insertion order fixes the
// statement tie-break order.
func (r *PgxPostingRepository) SavePosting(ctx context.Context, entries []domain.LedgerEntry, bill *domain.Bill, payment *domain.Payment, balanceChanges map[string]decimal.Decimal) error {
	if len(entries) == 0 {
		return apperrors.NewAppError(500, "posting must contain at least one entry", nil)
	}

	ledgerRepo := r.ledgerRepo

	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	// Ignored if the transaction is committed successfully
	defer r.Rollback(ctx, tx)

	// 1. Insert the bill header, when this posting creates one
	if bill != nil {
		modelBill := mapping.ToModelBill(*bill)
		billQuery := `
			INSERT INTO bills (` + billColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
		`
		_, err = tx.Exec(ctx, billQuery,
			modelBill.BillID,
			modelBill.CompanyID,
			modelBill.Kind,
			modelBill.Number,
			modelBill.PartyLedgerID,
			modelBill.PartyName,
			modelBill.BillDate,
			modelBill.SubTotal,
			modelBill.TotalGSTRate,
			modelBill.SGSTAmount,
			modelBill.CGSTAmount,
			modelBill.TotalGST,
			modelBill.TotalAmount,
			modelBill.Notes,
			modelBill.CreatedAt,
			modelBill.CreatedBy,
			modelBill.LastUpdatedAt,
			modelBill.LastUpdatedBy,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: bill %s/%s already exists", apperrors.ErrDuplicate, modelBill.Kind, modelBill.Number)
			}
			return apperrors.NewAppError(500, "failed to insert bill "+modelBill.BillID, err)
		}
	}

	// 2. Insert the payment row, when this posting records one
	if payment != nil {
		modelPayment := mapping.ToModelPayment(*payment)
		paymentQuery := `
			INSERT INTO bill_payments (` + paymentColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`
		_, err = tx.Exec(ctx, paymentQuery,
			modelPayment.PaymentID,
			modelPayment.BillID,
			modelPayment.PaymentDate,
			modelPayment.Amount,
			modelPayment.Method,
			modelPayment.Reference,
			modelPayment.CreatedAt,
			modelPayment.CreatedBy,
			modelPayment.LastUpdatedAt,
			modelPayment.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert payment "+modelPayment.PaymentID, err)
		}
	}

	// 3. Lock the affected ledgers
	ledgerIDs := make([]string, 0, len(balanceChanges))
	for ledgerID := range balanceChanges {
		ledgerIDs = append(ledgerIDs, ledgerID)
	}

	if _, err := ledgerRepo.FindLedgersByIDsForUpdate(ctx, tx, ledgerIDs); err != nil {
		// Error includes ErrNotFound if any ledger is missing
		return apperrors.NewAppError(500, "failed to lock ledgers for update", err)
	}

	// 4. Apply balance deltas under the locks
	now := entries[0].CreatedAt
	userID := entries[0].CreatedBy
	if err := ledgerRepo.UpdateLedgerBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return apperrors.NewAppError(500, "failed to update ledger balances", err)
	}

	// 5. Insert the entry lines. Batched statements execute in queue order,
	// so the bigserial seq follows the slice order.
	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO ledger_entries (entry_id, company_id, ledger_id, ledger_name, entry_date, entry_type, details, debit, credit, ref_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	for _, entry := range entries {
		modelEntry := mapping.ToModelLedgerEntry(entry)
		batch.Queue(entryQuery,
			modelEntry.EntryID,
			modelEntry.CompanyID,
			modelEntry.LedgerID,
			modelEntry.LedgerName,
			modelEntry.EntryDate,
			modelEntry.EntryType,
			modelEntry.Details,
			modelEntry.Debit,
			modelEntry.Credit,
			modelEntry.RefID,
			modelEntry.CreatedAt,
			modelEntry.CreatedBy,
			modelEntry.LastUpdatedAt,
			modelEntry.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute entry batch for ref "+entries[0].RefID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit posting for ref "+entries[0].RefID, err)
	}

	return nil
}
