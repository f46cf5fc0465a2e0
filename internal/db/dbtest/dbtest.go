// Package dbtest opens migrated throwaway SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/fittrack/internal/db"
)

// New returns a fresh SQLite database in t.TempDir with all migrations applied.
// The connection is closed when the test ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_time_format=sqlite"
	conn, err := db.Init(db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close(conn)
	})

	require.NoError(t, db.RunMigrations(conn.DB, db.DriverSQLite))

	return conn
}
