// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/db"
)

// Open returns a migrated SQLite database in a temp directory that is removed
// when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "fitcircle_test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	conn, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))

	return conn
}
