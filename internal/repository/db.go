package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ConstraintTestSlug is the unique constraint guarding tests.slug.
const ConstraintTestSlug = "uq_tests_slug"

// Storage errors surfaced to the service layer.
var (
	ErrDuplicateSlug = errors.New("test slug already exists")
	ErrIntegrity     = errors.New("integrity constraint violation")
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
// Repositories run every statement against the handle they are given and
// never commit on their own.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Classify maps PostgreSQL constraint violations onto repository errors.
// Class 23 is "integrity constraint violation".
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code == "23505" && pgErr.ConstraintName == ConstraintTestSlug {
		return ErrDuplicateSlug
	}
	if len(pgErr.Code) == 5 && pgErr.Code[:2] == "23" {
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	return err
}
