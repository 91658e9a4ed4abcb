// Package migrations embeds the goose migrations for each supported dialect.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

// Postgres holds the PostgreSQL migrations under "postgres".
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the SQLite migrations under "sqlite".
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Dialects understood by Up.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// goose keeps its base FS and dialect in package state.
var mu sync.Mutex

// gooseUp is a seam for tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Up applies every pending migration of the given dialect.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	var (
		fsys         embed.FS
		gooseDialect string
	)
	switch dialect {
	case DialectPostgres:
		fsys, gooseDialect = Postgres, "pgx"
	case DialectSQLite:
		fsys, gooseDialect = SQLite, "sqlite3"
	default:
		return fmt.Errorf("unknown migration dialect %q", dialect)
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUp(ctx, db, dialect); err != nil {
		return fmt.Errorf("apply %s migrations: %w", dialect, err)
	}
	return nil
}
