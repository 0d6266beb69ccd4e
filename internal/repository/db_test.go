package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name   string
		err    error
		want   error
		passes bool
	}{
		{name: "nil", err: nil, want: nil},
		{
			name: "slug unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: ConstraintTestSlug},
			want: ErrDuplicateSlug,
		},
		{
			name: "wrapped slug unique violation",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: ConstraintTestSlug}),
			want: ErrDuplicateSlug,
		},
		{
			name: "other unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "questions_pkey"},
			want: ErrIntegrity,
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "questions_test_id_fkey"},
			want: ErrIntegrity,
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: "23514"},
			want: ErrIntegrity,
		},
		{
			name:   "syntax error passes through",
			err:    &pgconn.PgError{Code: "42601"},
			passes: true,
		},
		{name: "non postgres error passes through", err: other, passes: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			switch {
			case tt.err == nil:
				assert.NoError(t, got)
			case tt.passes:
				assert.Same(t, tt.err, got)
			default:
				assert.ErrorIs(t, got, tt.want)
			}
		})
	}
}

func TestClassify_IntegrityKeepsCause(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "questions_test_id_fkey"}

	got := Classify(pgErr)

	var cause *pgconn.PgError
	assert.True(t, errors.As(got, &cause))
	assert.Equal(t, "questions_test_id_fkey", cause.ConstraintName)
}
