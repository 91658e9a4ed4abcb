// Package testutil provides fixtures shared by server tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/codeide/internal/server/migrations"
	"github.com/dmitrijs2005/codeide/internal/server/storage"
)

// NewSQLiteDB returns a migrated SQLite database in a per-test temp dir.
// It is closed on test cleanup.
func NewSQLiteDB(t testing.TB) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := storage.Open(ctx, storage.DriverSQLite, filepath.Join(t.TempDir(), "codeide.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Up(ctx, db, migrations.DialectSQLite); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}
