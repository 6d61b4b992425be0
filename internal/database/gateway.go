package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/student-results/internal/sqlerr"
)

// Select runs a read and scans every row with scan.
//
// On failure nothing is returned but the classified error: a 503 when the
// database cannot be reached, a 500 otherwise. The result is never nil on
// success, so an empty table encodes as [] in JSON.
func Select[T any](ctx context.Context, db *Database, op, sql string, scan pgx.RowToFunc[T], args ...any) ([]T, error) {
	start := time.Now()

	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.fail(op, start, err)
	}

	// CollectRows closes rows on every path.
	items, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, db.fail(op, start, err)
	}
	if items == nil {
		items = []T{}
	}

	db.observe(op, start)
	return items, nil
}

// Get runs a read that must produce exactly one row. No row becomes a
// 404 naming table.
func Get[T any](ctx context.Context, db *Database, table, sql string, scan pgx.RowToFunc[T], args ...any) (*T, error) {
	start := time.Now()
	op := "get " + table

	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.fail(op, start, err)
	}

	item, err := pgx.CollectOneRow(rows, scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = sqlerr.NotFound(table)
		}
		return nil, db.fail(op, start, err)
	}

	db.observe(op, start)
	return &item, nil
}

// WithTx is the transactional scope for writes.
//
// It opens a transaction, runs fn, and commits. Any failure (begin, fn,
// commit) rolls back and returns the classified error. The deferred
// rollback runs on every exit path, including panics, so the connection
// always goes back to the pool.
func (db *Database) WithTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	start := time.Now()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return db.fail(op, start, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// Rollback must run even when the request context is gone.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			db.log.Warn().Err(rbErr).Str("op", op).Msg("transaction rollback failed")
		}
	}()

	if err := fn(tx); err != nil {
		return db.fail(op, start, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return db.fail(op, start, err)
	}
	committed = true

	db.observe(op, start)
	return nil
}

// Exec runs a single statement in its own transaction.
func (db *Database) Exec(ctx context.Context, op, sql string, args ...any) (pgconn.CommandTag, error) {
	var tag pgconn.CommandTag
	err := db.WithTx(ctx, op, func(tx pgx.Tx) error {
		var err error
		tag, err = tx.Exec(ctx, sql, args...)
		return err
	})
	return tag, err
}

// fail logs err and converts it with sqlerr.HandleError.
//
// Constraint violations are expected user errors and log at warn;
// everything else logs at error.
func (db *Database) fail(op string, start time.Time, err error) error {
	code := sqlerr.Classify(err)

	event := db.log.Error()
	if code.IsIntegrityViolation() || errors.Is(err, pgx.ErrNoRows) {
		event = db.log.Warn()
	}

	event.Err(err).
		Str("op", op).
		Str("sql_error", string(code)).
		Dur("duration", time.Since(start)).
		Msg("database operation failed")

	return sqlerr.HandleError(err)
}

func (db *Database) observe(op string, start time.Time) {
	elapsed := time.Since(start)

	if db.slowQuery > 0 && elapsed > db.slowQuery {
		db.log.Warn().
			Str("op", op).
			Dur("duration", elapsed).
			Dur("threshold", db.slowQuery).
			Msg("slow database operation")
		return
	}

	db.log.Debug().Str("op", op).Dur("duration", elapsed).Msg("database operation")
}
