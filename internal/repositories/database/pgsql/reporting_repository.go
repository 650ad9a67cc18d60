package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetTrialBalanceData retrieves per-ledger closing balances as of a specific
// date. A positive net lands in the debit column, a negative net in the
// credit column.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			l.ledger_id,
			l.name AS ledger_name,
			l.ledger_group,
			l.opening_balance + COALESCE(SUM(e.debit - e.credit), 0) AS net
		FROM ledgers l
		LEFT JOIN ledger_entries e
			ON e.ledger_id = l.ledger_id AND e.entry_date <= $1
		WHERE l.company_id = $2 AND l.is_active = TRUE
		GROUP BY l.ledger_id, l.name, l.ledger_group
		ORDER BY l.name;
	`

	rows, err := r.Pool.Query(ctx, query, asOf, companyID)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var group string
		var net decimal.Decimal

		if err := rows.Scan(
			&row.LedgerID,
			&row.LedgerName,
			&group,
			&net,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}

		row.Group = domain.LedgerGroup(group)
		if net.IsNegative() {
			row.Debit = decimal.Zero
			row.Credit = net.Neg()
		} else {
			row.Debit = net
			row.Credit = decimal.Zero
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	if len(result) == 0 {
		// Return empty slice instead of nil
		return []domain.TrialBalanceRow{}, nil
	}

	return result, nil
}
