package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository carries the shared pool and transaction plumbing that every
// pgx repository embeds.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin opens a transaction on the shared pool.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "begin transaction failed", err)
	}
	return tx, nil
}

// Commit finalizes a transaction.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "commit transaction failed", err)
	}
	return nil
}

// Rollback aborts a transaction. A rollback after commit is a no-op, so the
// usual deferred call reports nothing.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewAppError(500, "rollback transaction failed", err)
	}
	return nil
}
