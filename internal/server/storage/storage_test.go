package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteEnforcesForeignKeys(t *testing.T) {
	db, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "codeide.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var on int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)
}

func TestOpen_SQLiteMemorySingleConnection(t *testing.T) {
	db, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestOpen_SQLiteConcurrentWriteTransactions(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "codeide.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE hits (n INTEGER NOT NULL)`)
	require.NoError(t, err)

	const workers = 30
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				errs <- err
				return
			}
			var count int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM hits`).Scan(&count); err != nil {
				_ = tx.Rollback()
				errs <- err
				return
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO hits (n) VALUES (?)`, n); err != nil {
				_ = tx.Rollback()
				errs <- err
				return
			}
			errs <- tx.Commit()
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var total int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM hits`).Scan(&total))
	assert.Equal(t, workers, total)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mongodb", "mongodb://localhost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestWithSQLitePragmas(t *testing.T) {
	assert.Equal(t, "a.db?"+sqlitePragmas, withSQLitePragmas("a.db"))
	assert.Equal(t, "file:a.db?mode=rwc&"+sqlitePragmas, withSQLitePragmas("file:a.db?mode=rwc"))
	assert.Contains(t, sqlitePragmas, "_txlock=immediate")
}

func TestOpen_SQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "codeide.db")

	db, err := Open(context.Background(), DriverSQLite, "file:"+path+"?mode=rwc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.DirExists(t, filepath.Dir(path))
}

func TestSQLiteFilePath(t *testing.T) {
	assert.Equal(t, "a.db", sqliteFilePath("a.db"))
	assert.Equal(t, "/var/lib/a.db", sqliteFilePath("file:/var/lib/a.db?mode=rwc"))
}
