package store

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned by mutations that address a missing row.
	ErrNotFound = errors.New("record not found")
	// ErrInUse is returned when deleting a row that other rows still reference.
	ErrInUse = errors.New("record is in use")
	// ErrConflict is returned when a change violates a state rule.
	ErrConflict = errors.New("conflicting state")
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// expectAffected turns a zero-row update or delete into ErrNotFound.
func expectAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// countRefs counts rows in table whose column equals id.
func countRefs(ctx context.Context, q queryer, table, column string, id int64) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+table+` WHERE `+column+` = ?`, id,
	).Scan(&n)
	return n, err
}
