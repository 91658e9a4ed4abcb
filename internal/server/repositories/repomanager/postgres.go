// Package repomanager vends repository implementations per database backend
// and runs the matching schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/codeide/internal/dbx"
	"github.com/dmitrijs2005/codeide/internal/server/migrations"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/projects"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Projects returns a projects.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Projects(db dbx.DBTX) projects.Repository {
	return projects.NewPostgresRepository(db)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, migrations.DialectPostgres)
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
