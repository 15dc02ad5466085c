package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/models"
	"github.com/dmitrijs2005/lostfound/internal/repositories/repomanager"
)

// A plain SQLite DSN without any pragma must still reject unknown owners and
// cascade account deletion.
func TestOwnerIntegrity_PlainSQLiteDSN(t *testing.T) {
	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "plain.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	e := newEnvWith(t, db, repomanager.NewSQLiteRepositoryManager(nil))
	require.NoError(t, e.schema.EnsureSchema(ctx))

	_, err = e.items.ReportItem(ctx, 9999, models.Lost, report("Keys", "house keys", "Cafe"))
	require.ErrorIs(t, err, common.ErrNotFound)

	alice := e.signup(t, "alice")
	_, err = e.items.ReportItem(ctx, alice, models.Lost, report("Wallet", "brown", "Gym"))
	require.NoError(t, err)
	require.NoError(t, e.accounts.DeleteAccount(ctx, alice))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lost_items`).Scan(&n))
	require.Zero(t, n, "no orphaned rows after owner deletion")
}
