// Package repomanager selects the repository implementations and migration
// set for the configured database driver.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/repositories/accounts"
	"github.com/dmitrijs2005/lostfound/internal/repositories/items"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Items(db dbx.DBTX) items.Repository
}

// New returns the RepositoryManager for a database/sql driver name.
// Migration progress is reported through logger.
func New(driver string, logger logging.Logger) (RepositoryManager, error) {
	switch driver {
	case dbx.DriverSQLite:
		return NewSQLiteRepositoryManager(logger), nil
	case dbx.DriverPostgres:
		return NewPostgresRepositoryManager(logger), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// gooseLogger forwards goose output to a Logger. Fatalf is logged as an error;
// failures still reach the caller as returned errors.
type gooseLogger struct {
	l logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}
