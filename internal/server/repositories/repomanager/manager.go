package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/codeide/internal/dbx"
	"github.com/dmitrijs2005/codeide/internal/server/migrations"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/projects"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/users"
	"github.com/dmitrijs2005/codeide/internal/server/storage"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Projects(db dbx.DBTX) projects.Repository
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// New returns the RepositoryManager matching a database/sql driver name.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case storage.DriverPostgres:
		return NewPostgresRepositoryManager(), nil
	case storage.DriverSQLite:
		return NewSQLiteRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects to the database, brings its schema up to date and returns the
// connection together with the matching RepositoryManager.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	m, err := New(driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := storage.Open(ctx, driver, dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, m, nil
}
