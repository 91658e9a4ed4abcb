package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/codeide/internal/dbx"
	"github.com/dmitrijs2005/codeide/internal/server/migrations"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/projects"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/users"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Projects(db dbx.DBTX) projects.Repository {
	return projects.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, migrations.DialectSQLite)
}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}
