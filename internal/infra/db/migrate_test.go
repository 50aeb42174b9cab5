package db

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp_SQLite(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS sources").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS items").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_items_status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_items_published_at").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_sources_active").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = MigrateUp(conn, DialectSQLite)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_Postgres(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS sources").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS items").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_items_status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_items_published_at").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_sources_active").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = MigrateUp(conn, DialectPostgres)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_UnknownDialect(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	err = MigrateUp(conn, Dialect("oracle"))

	assert.Error(t, err)
}

func TestMigrateUp_TableCreationFails(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS sources").
		WillReturnError(errors.New("disk full"))

	err = MigrateUp(conn, DialectSQLite)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MigrateUp")
}
