// Package services implements the account, item and schema operations used
// by the front-end. Every operation validates its input locally, runs its
// storage calls under the configured query timeout and reports failures as
// typed errors from internal/common.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/config"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/repositories/repomanager"
)

// base holds what every service needs.
type base struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	queryTimeout time.Duration
	log          logging.Logger
}

func newBase(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) base {
	if log == nil {
		log = logging.NewNop()
	}
	return base{db: db, repomanager: m, queryTimeout: cfg.QueryTimeout, log: log}
}

// run executes fn under the query timeout and wraps a failure as a
// StorageError for op. Errors in keep are returned unwrapped.
func (b *base) run(ctx context.Context, op string, fn func(ctx context.Context) error, keep ...error) error {
	ctx, cancel := dbx.WithTimeout(ctx, b.queryTimeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	for _, k := range keep {
		if errors.Is(err, k) {
			return err
		}
	}
	b.log.Error(ctx, "storage failure", "op", op, "error", err)
	return common.NewStorageError(op, err)
}
