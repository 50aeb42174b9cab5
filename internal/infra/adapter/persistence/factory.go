// Package persistence wires the repository interfaces to the store dialect
// chosen at startup.
package persistence

import (
	"database/sql"

	"feeddigest/internal/infra/adapter/persistence/postgres"
	"feeddigest/internal/infra/adapter/persistence/sqlite"
	"feeddigest/internal/infra/db"
	"feeddigest/internal/repository"
)

// NewRepositories returns the source and item repositories backed by conn
// for the given dialect.
func NewRepositories(conn *sql.DB, dialect db.Dialect) (repository.SourceRepository, repository.ItemRepository) {
	if dialect == db.DialectPostgres {
		return postgres.NewSourceRepo(conn), postgres.NewItemRepo(conn)
	}
	return sqlite.NewSourceRepo(conn), sqlite.NewItemRepo(conn)
}
