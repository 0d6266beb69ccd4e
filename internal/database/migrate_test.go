package database

import (
	"io"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/siriuscareer/career-admin/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	r, ident, err := src.ReadUp(first)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "create_tests_and_questions", ident)

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	sql := string(body)
	assert.Contains(t, sql, "CONSTRAINT uq_tests_slug UNIQUE (slug)")
	assert.Contains(t, sql, "ON DELETE CASCADE")
	assert.True(t, strings.Contains(sql, `"order"`))

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	_ = down.Close()
}

func TestNewMigrator_RejectsUnknownScheme(t *testing.T) {
	_, err := NewMigrator("mysql://user@localhost/db")
	assert.Error(t, err)
}
