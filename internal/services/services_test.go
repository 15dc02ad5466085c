package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/lostfound/internal/config"
	"github.com/dmitrijs2005/lostfound/internal/cryptox"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/models"
	"github.com/dmitrijs2005/lostfound/internal/repositories/accounts"
	"github.com/dmitrijs2005/lostfound/internal/repositories/items"
	"github.com/dmitrijs2005/lostfound/internal/repositories/repomanager"
	"github.com/dmitrijs2005/lostfound/internal/testutil"
)

// --- helpers ---

var cheapParams = cryptox.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

type env struct {
	db       *sql.DB
	cfg      *config.Config
	accounts *AccountService
	items    *ItemService
	schema   *SchemaService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return newEnvWith(t, db, repomanager.NewSQLiteRepositoryManager(nil))
}

func newEnvWith(t *testing.T, db *sql.DB, m repomanager.RepositoryManager) *env {
	t.Helper()
	cfg := testConfig()
	log := logging.NewNop()
	return &env{
		db:       db,
		cfg:      cfg,
		accounts: NewAccountService(db, m, cfg, cryptox.NewHasher(cheapParams), log),
		items:    NewItemService(db, m, cfg, log),
		schema:   NewSchemaService(db, m, cfg, log),
	}
}

func (e *env) signup(t *testing.T, username string) models.AccountID {
	t.Helper()
	id, err := e.accounts.CreateAccount(context.Background(), username, username+"@example.com", "secret1")
	require.NoError(t, err)
	return id
}

func (e *env) countAccounts(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&n))
	return n
}

// fakeManager hands out the configured repositories regardless of handle.
type fakeManager struct {
	accounts   accounts.Repository
	items      items.Repository
	migrateErr error
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return m.migrateErr }
func (m *fakeManager) Accounts(dbx.DBTX) accounts.Repository        { return m.accounts }
func (m *fakeManager) Items(dbx.DBTX) items.Repository              { return m.items }

type fakeAccounts struct {
	accounts.Repository
	exists    bool
	existsErr error
	createErr error
	getErr    error
}

func (f *fakeAccounts) Exists(context.Context, string, string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = 1
	return a, nil
}

func (f *fakeAccounts) GetByUsername(context.Context, string) (*models.Account, error) {
	return nil, f.getErr
}

type blockingItems struct {
	items.Repository
}

func (blockingItems) Search(ctx context.Context, _ models.Variant, _ string) ([]models.ItemView, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
