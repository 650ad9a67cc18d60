package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	"github.com/FurnBooks/furniture_books_app/internal/models"
	"github.com/FurnBooks/furniture_books_app/internal/utils/mapping"
	"github.com/FurnBooks/furniture_books_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ledgerColumns = `ledger_id, company_id, name, ledger_group, opening_balance, balance, email, address, gstin, dealer_id, is_system, is_active, created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, company_id, ledger_id, ledger_name, entry_date, entry_type, details, debit, credit, ref_id, seq, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger and entry data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

func scanLedger(row pgx.Row) (*domain.Ledger, error) {
	var m models.Ledger
	err := row.Scan(
		&m.LedgerID,
		&m.CompanyID,
		&m.Name,
		&m.LedgerGroup,
		&m.OpeningBalance,
		&m.Balance,
		&m.Email,
		&m.Address,
		&m.GSTIN,
		&m.DealerID,
		&m.IsSystem,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainLedger(m)
	return &d, nil
}

// SaveLedger inserts a new ledger.
func (r *PgxLedgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	m := mapping.ToModelLedger(ledger)

	query := `
		INSERT INTO ledgers (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.LedgerID,
		m.CompanyID,
		m.Name,
		m.LedgerGroup,
		m.OpeningBalance,
		m.Balance,
		m.Email,
		m.Address,
		m.GSTIN,
		m.DealerID,
		m.IsSystem,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: ledger %q already exists in company %s", apperrors.ErrDuplicate, m.Name, m.CompanyID)
		}
		return fmt.Errorf("failed to save ledger %s: %w", m.LedgerID, err)
	}
	return nil
}

// FindLedgerByID retrieves a ledger by its ID.
func (r *PgxLedgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledgers WHERE ledger_id = $1;`

	ledger, err := scanLedger(r.Pool.QueryRow(ctx, query, ledgerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger by ID %s: %w", ledgerID, err)
	}
	return ledger, nil
}

// FindLedgerByName retrieves a ledger by name within a company. The lookup is
// case-insensitive and only considers active ledgers, matching the partial
// unique index that enforces name uniqueness.
func (r *PgxLedgerRepository) FindLedgerByName(ctx context.Context, companyID string, name string) (*domain.Ledger, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledgers
		WHERE company_id = $1 AND lower(name) = lower($2) AND is_active = TRUE;
	`
	ledger, err := scanLedger(r.Pool.QueryRow(ctx, query, companyID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger by name %q in company %s: %w", name, companyID, err)
	}
	return ledger, nil
}

// FindLedgersByIDs retrieves multiple ledgers by their IDs.
func (r *PgxLedgerRepository) FindLedgersByIDs(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error) {
	if len(ledgerIDs) == 0 {
		return map[string]domain.Ledger{}, nil
	}

	query := `SELECT ` + ledgerColumns + ` FROM ledgers WHERE ledger_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, ledgerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledgers by IDs: %w", err)
	}
	defer rows.Close()

	ledgersMap := make(map[string]domain.Ledger)
	for rows.Next() {
		ledger, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row during batch fetch: %w", err)
		}
		ledgersMap[ledger.LedgerID] = *ledger
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows during batch fetch: %w", err)
	}

	// Not all requested IDs are guaranteed to be present; the caller checks.
	return ledgersMap, nil
}

// ListLedgers retrieves a paginated list of active ledgers for a company,
// optionally filtered by ledger group.
func (r *PgxLedgerRepository) ListLedgers(ctx context.Context, companyID string, group *domain.LedgerGroup, limit int, offset int) ([]domain.Ledger, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + ledgerColumns + `
		FROM ledgers
		WHERE is_active = TRUE AND company_id = $1
	`
	args := []interface{}{companyID}
	if group != nil {
		args = append(args, string(*group))
		query += ` AND ledger_group = $2`
	}
	query += ` ORDER BY name LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledgers for company %s: %w", companyID, err)
	}
	defer rows.Close()

	ledgers := []domain.Ledger{}
	for rows.Next() {
		ledger, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row for company %s: %w", companyID, err)
		}
		ledgers = append(ledgers, *ledger)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating ledger rows for company %s: %w", companyID, rows.Err())
	}

	return ledgers, nil
}

// UpdateLedger updates an existing ledger's details.
func (r *PgxLedgerRepository) UpdateLedger(ctx context.Context, ledger domain.Ledger) error {
	m := mapping.ToModelLedger(ledger)

	query := `
		UPDATE ledgers
		SET name = $2, email = $3, address = $4, gstin = $5, dealer_id = $6, last_updated_at = $7, last_updated_by = $8
		WHERE ledger_id = $1;
	`
	// Group, opening balance and the running balance are not updatable here.

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.LedgerID,
		m.Name,
		m.Email,
		m.Address,
		m.GSTIN,
		m.DealerID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: ledger %q already exists in company %s", apperrors.ErrDuplicate, m.Name, m.CompanyID)
		}
		return fmt.Errorf("failed to execute update ledger %s: %w", m.LedgerID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeactivateLedger marks a ledger as inactive.
func (r *PgxLedgerRepository) DeactivateLedger(ctx context.Context, ledgerID string, userID string, now time.Time) error {
	query := `
		UPDATE ledgers
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE ledger_id = $1 AND is_active = TRUE;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, ledgerID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate ledger %s: %w", ledgerID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Distinguish missing from already inactive.
		_, findErr := r.FindLedgerByID(ctx, ledgerID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check ledger status after deactivation attempt for %s: %w", ledgerID, findErr)
		}
		return apperrors.ErrValidation
	}

	return nil
}

// FindLedgersByIDsForUpdate retrieves multiple ledgers by IDs and locks the rows for update.
// Must be called within a transaction.
func (r *PgxLedgerRepository) FindLedgersByIDsForUpdate(ctx context.Context, tx pgx.Tx, ledgerIDs []string) (map[string]domain.Ledger, error) {
	if len(ledgerIDs) == 0 {
		return map[string]domain.Ledger{}, nil
	}

	query := `
		SELECT ` + ledgerColumns + `
		FROM ledgers
		WHERE ledger_id = ANY($1)
		FOR UPDATE;
	`

	rows, err := tx.Query(ctx, query, ledgerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledgers by IDs for update: %w", err)
	}
	defer rows.Close()

	ledgersMap := make(map[string]domain.Ledger)
	for rows.Next() {
		ledger, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked ledger row: %w", err)
		}
		ledgersMap[ledger.LedgerID] = *ledger
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked ledger rows: %w", err)
	}

	if len(ledgersMap) != len(ledgerIDs) {
		missing := []string{}
		for _, id := range ledgerIDs {
			if _, found := ledgersMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some ledgers requested for update lock were not found", "missing_ledgers", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested ledgers, missing: %v", apperrors.ErrNotFound, missing)
	}

	return ledgersMap, nil
}

// UpdateLedgerBalancesInTx applies balance deltas for multiple ledgers within a transaction.
func (r *PgxLedgerRepository) UpdateLedgerBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}

	query := `
		UPDATE ledgers
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE ledger_id = $1;
	`

	batch := &pgx.Batch{}
	ledgerIDs := make([]string, 0, len(balanceChanges))
	for ledgerID, delta := range balanceChanges {
		if !delta.IsZero() {
			batch.Queue(query, ledgerID, delta, now, userID)
			ledgerIDs = append(ledgerIDs, ledgerID)
		}
	}

	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for ledger %s: %w", ledgerIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: ledger %s not found during balance update", apperrors.ErrNotFound, ledgerIDs[i])
			}
		}
	}

	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}

	return batchErr
}

func scanEntry(rows pgx.Rows) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := rows.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.LedgerID,
		&m.LedgerName,
		&m.EntryDate,
		&m.EntryType,
		&m.Details,
		&m.Debit,
		&m.Credit,
		&m.RefID,
		&m.Seq,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindEntriesByRefID retrieves all entries that share a reference ID,
// in insertion order.
func (r *PgxLedgerRepository) FindEntriesByRefID(ctx context.Context, companyID string, refID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE company_id = $1 AND ref_id = $2
		ORDER BY seq;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, refID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for ref %s: %w", refID, err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row for ref %s: %w", refID, err)
		}
		entries = append(entries, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows for ref %s: %w", refID, err)
	}

	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// FindEntriesByLedger retrieves all entries for a ledger in a date range,
// ordered by entry date then insertion sequence. Zero-valued bounds are open.
func (r *PgxLedgerRepository) FindEntriesByLedger(ctx context.Context, companyID string, ledgerID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE company_id = $1 AND ledger_id = $2
	`
	args := []interface{}{companyID, ledgerID}
	if !from.IsZero() {
		args = append(args, from)
		query += ` AND entry_date >= $` + strconv.Itoa(len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += ` AND entry_date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY entry_date, seq;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for ledger %s: %w", ledgerID, err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row for ledger %s: %w", ledgerID, err)
		}
		entries = append(entries, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows for ledger %s: %w", ledgerID, err)
	}

	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// ListEntriesByLedger retrieves a paginated list of entries for a ledger using token-based pagination.
// It returns the entries, a token for the next page, and an error.
func (r *PgxLedgerRepository) ListEntriesByLedger(ctx context.Context, companyID string, ledgerID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE company_id = $1 AND ledger_id = $2
	`
	// Ordering must be stable: entry_date DESC with seq DESC as tie-breaker.
	orderByClause := `ORDER BY entry_date DESC, seq DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{companyID, ledgerID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastSeq, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		// Tuple comparison is concise and efficient in Postgres.
		cursorClause := `AND (entry_date, seq) < ($3, $4)`
		args = append(args, lastDate, lastSeq)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for ledger "+ledgerID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for ledger "+ledgerID, scanErr)
		}
		modelEntries = append(modelEntries, m)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for ledger "+ledgerID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		// The token points to the last item included in this response page.
		lastEntry := modelEntries[limit-1]
		token := pagination.EncodeToken(lastEntry.EntryDate, lastEntry.Seq)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(results), nextTokenVal, nil
}
