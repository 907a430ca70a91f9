package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"propapi/internal/repository"
)

// Package postgres implements the repository interfaces with database/sql and
// parameterized queries. It contains no business logic.

type rowScanner interface {
	Scan(dest ...any) error
}

// where accumulates AND-ed conditions with positional placeholders.
type where struct {
	clauses []string
	args    []any
}

// add appends a condition; cond must contain a single %d for the placeholder index.
func (w *where) add(cond string, v any) {
	w.args = append(w.args, v)
	w.clauses = append(w.clauses, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) addIf(ok bool, cond string, v any) {
	if ok {
		w.add(cond, v)
	}
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page returns a LIMIT/OFFSET clause numbered after the existing args, and the args including them.
func (w *where) page(limit, offset int) (string, []any) {
	n := len(w.args)
	args := append(append([]any{}, w.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func count(ctx context.Context, db *sql.DB, q string, args ...any) (int, error) {
	var total int
	if err := db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// expectOneRow maps a zero-row update to errNone.
func expectOneRow(res sql.Result, errNone error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errNone
	}
	return nil
}

const uniqueViolation = "23505"

// mapUnique turns a unique constraint violation into repository.ErrDuplicate.
func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
