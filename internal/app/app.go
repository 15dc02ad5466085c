// Package app wires configuration, logging, storage and services together
// and runs the terminal front-end.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/lostfound/internal/cli"
	"github.com/dmitrijs2005/lostfound/internal/config"
	"github.com/dmitrijs2005/lostfound/internal/cryptox"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/filex"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/repositories/repomanager"
	"github.com/dmitrijs2005/lostfound/internal/services"
)

// connectAttempts bounds how often the initial connection is retried.
const connectAttempts = 3

// openDB is a test seam for dbx.Open.
var openDB = dbx.Open

type App struct {
	config *config.Config
	logger logging.Logger
	hasher services.PasswordHasher

	in  io.Reader
	out io.Writer
}

// New loads the configuration from args. Logs go to errOut so they do not
// interleave with the interactive output on out.
func New(args []string, in io.Reader, out, errOut io.Writer) (*App, error) {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return nil, err
	}

	logger := logging.New(errOut, cfg.LogLevel, cfg.LogFormat)

	return &App{
		config: cfg,
		logger: logger,
		hasher: cryptox.NewHasher(cryptox.DefaultParams),
		in:     in,
		out:    out,
	}, nil
}

// Run connects to the database, initializes the schema and serves the REPL
// until input ends. A schema failure is shown to the user but does not stop
// the program; a connection that cannot be established does.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.EnsureTraceID(ctx)

	a.logger.Info(ctx, "starting", "driver", a.config.Driver)

	db, err := a.connect(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Database connection failed: %v\n", err)
		return err
	}
	defer db.Close()

	m, err := repomanager.New(a.config.Driver, a.logger)
	if err != nil {
		return err
	}

	schema := services.NewSchemaService(db, m, a.config, a.logger)
	accounts := services.NewAccountService(db, m, a.config, a.hasher, a.logger)
	items := services.NewItemService(db, m, a.config, a.logger)

	status := "Database connected successfully"
	if err := schema.EnsureSchema(ctx); err != nil {
		status = fmt.Sprintf("Database initialization failed: %v", err)
	}

	ui := cli.NewApp(accounts, items, a.config.SearchDebounce, a.in, a.out, a.logger)
	ui.Run(ctx, status)

	a.logger.Info(ctx, "stopped")
	return nil
}

func (a *App) connect(ctx context.Context) (*sql.DB, error) {
	if a.config.Driver == dbx.DriverSQLite {
		if path := filex.SQLitePath(a.config.DatabaseDSN); path != "" {
			if err := filex.EnsureParentDir(path); err != nil {
				return nil, err
			}
		}
	}

	var db *sql.DB

	b := retry.WithMaxRetries(connectAttempts-1, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		cctx, cancel := dbx.WithTimeout(ctx, a.config.QueryTimeout)
		defer cancel()

		var err error
		db, err = openDB(cctx, a.config.Driver, a.config.DatabaseDSN)
		if err != nil {
			a.logger.Warn(ctx, "database connection attempt failed", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
