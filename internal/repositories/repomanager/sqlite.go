package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/migrations"
	"github.com/dmitrijs2005/lostfound/internal/repositories/accounts"
	"github.com/dmitrijs2005/lostfound/internal/repositories/items"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct {
	logger logging.Logger
}

func NewSQLiteRepositoryManager(logger logging.Logger) *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{logger: logger}
}

func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Items(db dbx.DBTX) items.Repository {
	return items.NewSQLiteRepository(db)
}

// RunMigrations applies the embedded SQLite schema. It is safe to call on an
// initialized database.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", migrations.SQLiteDir, m.logger)
}

// runMigrations is a seam for testing.
var runMigrations = func(ctx context.Context, db *sql.DB, dialect, dir string, logger logging.Logger) error {
	if logger == nil {
		return migrations.Up(ctx, db, dialect, dir, nil)
	}
	return migrations.Up(ctx, db, dialect, dir, gooseLogger{l: logger})
}
