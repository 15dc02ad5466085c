// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// PostgresDSNEnv names the variable that enables PostgreSQL integration tests.
const PostgresDSNEnv = "LOFS_TEST_POSTGRES_DSN"

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// SQLiteDSN returns a DSN for a fresh database file under t.TempDir() with
// foreign keys enabled on every connection.
func SQLiteDSN(t testing.TB) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "lofs.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// NewSQLiteDB opens a fresh SQLite database with the schema applied.
// It is closed when the test ends.
func NewSQLiteDB(t testing.TB) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := dbx.Open(ctx, dbx.DriverSQLite, SQLiteDSN(t))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Up(ctx, db, "sqlite3", migrations.SQLiteDir, nil); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// NewPostgresDB connects to the database named by LOFS_TEST_POSTGRES_DSN,
// applies the schema and empties the tables. The test is skipped when the
// variable is unset.
func NewPostgresDB(t testing.TB) *sql.DB {
	t.Helper()
	dsn := RequireEnv(t, PostgresDSNEnv)
	ctx := context.Background()

	db, err := dbx.Open(ctx, dbx.DriverPostgres, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Up(ctx, db, "pgx", migrations.PostgresDir, nil); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE accounts RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}
