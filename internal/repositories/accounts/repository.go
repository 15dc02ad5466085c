// Package accounts persists registered accounts.
//
// Implementations work over a dbx.DBTX so they can run either directly on a
// *sql.DB or inside a transaction started with dbx.WithTx. Username and email
// uniqueness is enforced by the schema; a violation on insert is reported as
// common.ErrDuplicate.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/models"
)

// Repository describes account storage.
type Repository interface {
	// Create inserts the account and returns it with ID and CreatedAt set.
	// Returns common.ErrDuplicate if the username or email is taken.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// Exists reports whether an account has exactly this username or exactly this email.
	Exists(ctx context.Context, username, email string) (bool, error)

	// GetByUsername returns common.ErrNotFound when no account matches.
	GetByUsername(ctx context.Context, username string) (*models.Account, error)

	// GetByID returns common.ErrNotFound when no account matches.
	GetByID(ctx context.Context, id models.AccountID) (*models.Account, error)

	// UpdatePasswordHash replaces the stored digest.
	UpdatePasswordHash(ctx context.Context, id models.AccountID, hash string) error

	// Delete removes the account; owned item records are removed by cascade.
	Delete(ctx context.Context, id models.AccountID) error
}
