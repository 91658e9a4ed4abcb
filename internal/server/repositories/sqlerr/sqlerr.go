// Package sqlerr classifies constraint violations reported by the PostgreSQL
// (pgx) and SQLite (modernc) drivers.
package sqlerr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// UniqueKey names one unique constraint the way each driver reports it.
type UniqueKey struct {
	// Postgres is the constraint (index) name.
	Postgres string
	// SQLite is the column list from the error message, e.g. "users.email".
	SQLite string
}

const sqliteUniquePrefix = "UNIQUE constraint failed: "

// IsUniqueViolation reports whether err is a violation of the unique key.
// Violations of other keys, the primary key included, do not match.
func IsUniqueViolation(err error, key UniqueKey) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == key.Postgres
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return sqliteUniqueColumns(sqliteErr.Error()) == key.SQLite
	}
	return false
}

// sqliteUniqueColumns extracts "table.col[, table.col]" from a SQLite unique
// constraint message.
func sqliteUniqueColumns(msg string) string {
	_, cols, ok := strings.Cut(msg, sqliteUniquePrefix)
	if !ok {
		return ""
	}
	cols, _, _ = strings.Cut(cols, " (")
	return strings.TrimSpace(cols)
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}
