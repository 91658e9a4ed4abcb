// Package storage opens the SQL database backing the repositories.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/codeide/internal/filex"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// sqlitePragmas are applied by modernc.org/sqlite on every new connection.
// Transactions start with BEGIN IMMEDIATE so concurrent writers queue on
// busy_timeout instead of failing when a read lock is upgraded.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"

// Open opens and pings the database. SQLite connections get foreign keys
// enforced and the directory of a file database is created on demand;
// in-memory SQLite databases are pinned to a single connection so every query
// sees the same database.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		if !isSQLiteMemory(dsn) {
			if _, err := filex.EnsureParentDir(sqliteFilePath(dsn)); err != nil {
				return nil, err
			}
		}
		dsn = withSQLitePragmas(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite && isSQLiteMemory(dsn) {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}

func isSQLiteMemory(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// sqliteFilePath strips the "file:" scheme and query from a SQLite DSN.
func sqliteFilePath(dsn string) string {
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	return path
}
