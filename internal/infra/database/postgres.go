package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

// invalid_text_representation, raised when a malformed uuid reaches a query.
const pqInvalidText = "22P02"

type scanner interface {
	Scan(dest ...any) error
}

// mapErr folds "no such record" conditions into entity.ErrNotFound.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqInvalidText {
		return entity.ErrNotFound
	}
	return err
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// withSheetLock runs fn in a transaction that holds the advisory lock of
// sheetID. Writers that read and then write row_index for the same sheet
// are serialised by it.
func withSheetLock(ctx context.Context, db *sql.DB, sheetID string, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, sheetID); err != nil {
		return fmt.Errorf("lock sheet %s: %w", sheetID, err)
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// likePattern escapes LIKE wildcards in s and wraps it for a contains match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
