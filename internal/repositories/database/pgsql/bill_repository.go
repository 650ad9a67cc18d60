package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	"github.com/FurnBooks/furniture_books_app/internal/models"
	"github.com/FurnBooks/furniture_books_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const billColumns = `bill_id, company_id, kind, number, party_ledger_id, party_name, bill_date, sub_total, total_gst_rate, sgst_amount, cgst_amount, total_gst_amount, total_amount, notes, created_at, created_by, last_updated_at, last_updated_by`

const paymentColumns = `payment_id, bill_id, payment_date, amount, method, reference, created_at, created_by, last_updated_at, last_updated_by`

type PgxBillRepository struct {
	BaseRepository
}

// newPgxBillRepository creates a new repository for bill and payment data.
func newPgxBillRepository(pool *pgxpool.Pool) portsrepo.BillRepositoryWithTx {
	return &PgxBillRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxBillRepository implements portsrepo.BillRepositoryWithTx
var _ portsrepo.BillRepositoryWithTx = (*PgxBillRepository)(nil)

func scanBill(row pgx.Row) (models.Bill, error) {
	var m models.Bill
	err := row.Scan(
		&m.BillID,
		&m.CompanyID,
		&m.Kind,
		&m.Number,
		&m.PartyLedgerID,
		&m.PartyName,
		&m.BillDate,
		&m.SubTotal,
		&m.TotalGSTRate,
		&m.SGSTAmount,
		&m.CGSTAmount,
		&m.TotalGST,
		&m.TotalAmount,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanPayment(rows pgx.Rows) (models.Payment, error) {
	var m models.Payment
	err := rows.Scan(
		&m.PaymentID,
		&m.BillID,
		&m.PaymentDate,
		&m.Amount,
		&m.Method,
		&m.Reference,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// findPaymentsByBillIDs retrieves payments for a set of bills, grouped by bill ID.
// Payments are returned in application order.
func (r *PgxBillRepository) findPaymentsByBillIDs(ctx context.Context, billIDs []string) (map[string][]models.Payment, error) {
	paymentsMap := make(map[string][]models.Payment, len(billIDs))
	if len(billIDs) == 0 {
		return paymentsMap, nil
	}

	query := `
		SELECT ` + paymentColumns + `
		FROM bill_payments
		WHERE bill_id = ANY($1)
		ORDER BY bill_id, created_at, payment_id;
	`
	rows, err := r.Pool.Query(ctx, query, billIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for bills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		paymentsMap[m.BillID] = append(paymentsMap[m.BillID], m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}

	return paymentsMap, nil
}

// FindBillByID retrieves a bill, including its payments, by its ID.
func (r *PgxBillRepository) FindBillByID(ctx context.Context, companyID string, billID string) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE company_id = $1 AND bill_id = $2;`

	m, err := scanBill(r.Pool.QueryRow(ctx, query, companyID, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bill by ID %s: %w", billID, err)
	}

	paymentsMap, err := r.findPaymentsByBillIDs(ctx, []string{m.BillID})
	if err != nil {
		return nil, err
	}

	bill := mapping.ToDomainBill(m, paymentsMap[m.BillID])
	return &bill, nil
}

// FindBillByNumber retrieves a bill by its document number within a company.
func (r *PgxBillRepository) FindBillByNumber(ctx context.Context, companyID string, kind domain.BillKind, billNumber string) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE company_id = $1 AND kind = $2 AND number = $3;`

	m, err := scanBill(r.Pool.QueryRow(ctx, query, companyID, string(kind), billNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bill %s/%s: %w", kind, billNumber, err)
	}

	paymentsMap, err := r.findPaymentsByBillIDs(ctx, []string{m.BillID})
	if err != nil {
		return nil, err
	}

	bill := mapping.ToDomainBill(m, paymentsMap[m.BillID])
	return &bill, nil
}

// attachPayments converts model bills to domain bills with their payments.
func (r *PgxBillRepository) attachPayments(ctx context.Context, modelBills []models.Bill) ([]domain.Bill, error) {
	billIDs := make([]string, len(modelBills))
	for i, m := range modelBills {
		billIDs[i] = m.BillID
	}

	paymentsMap, err := r.findPaymentsByBillIDs(ctx, billIDs)
	if err != nil {
		return nil, err
	}

	bills := make([]domain.Bill, len(modelBills))
	for i, m := range modelBills {
		bills[i] = mapping.ToDomainBill(m, paymentsMap[m.BillID])
	}
	return bills, nil
}

// ListBills retrieves a paginated list of bills for a company, newest first,
// optionally filtered by kind and party ledger.
func (r *PgxBillRepository) ListBills(ctx context.Context, companyID string, kind *domain.BillKind, partyLedgerID *string, limit int, offset int) ([]domain.Bill, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + billColumns + ` FROM bills WHERE company_id = $1`
	args := []interface{}{companyID}
	if kind != nil {
		args = append(args, string(*kind))
		query += ` AND kind = $` + strconv.Itoa(len(args))
	}
	if partyLedgerID != nil {
		args = append(args, *partyLedgerID)
		query += ` AND party_ledger_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY bill_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills for company %s: %w", companyID, err)
	}
	defer rows.Close()

	modelBills := []models.Bill{}
	for rows.Next() {
		m, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill row for company %s: %w", companyID, err)
		}
		modelBills = append(modelBills, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bill rows for company %s: %w", companyID, err)
	}

	return r.attachPayments(ctx, modelBills)
}

// FindBillsByPeriod retrieves all bills of a kind dated within a period, with payments.
func (r *PgxBillRepository) FindBillsByPeriod(ctx context.Context, companyID string, kind domain.BillKind, from, to time.Time) ([]domain.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE company_id = $1 AND kind = $2 AND bill_date >= $3 AND bill_date <= $4
		ORDER BY bill_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, string(kind), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills for period in company %s: %w", companyID, err)
	}
	defer rows.Close()

	modelBills := []models.Bill{}
	for rows.Next() {
		m, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill row for company %s: %w", companyID, err)
		}
		modelBills = append(modelBills, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bill rows for company %s: %w", companyID, err)
	}

	return r.attachPayments(ctx, modelBills)
}
