package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/models"
	"github.com/dmitrijs2005/lostfound/internal/repositories/dberr"
)

// SQLiteRepository implements Repository on SQLite. created_at is stored as
// unix milliseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO accounts (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, a.Username, a.Email, a.PasswordHash, a.CreatedAt.UnixMilli())
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, common.ErrDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.ID = models.AccountID(id)
	a.CreatedAt = time.UnixMilli(a.CreatedAt.UnixMilli()).UTC()

	return a, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT COUNT(*) FROM accounts WHERE username = ? OR email = ?`

	var n int
	if err := r.db.QueryRowContext(ctx, query, username, email).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM accounts WHERE username = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id models.AccountID) (*models.Account, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM accounts WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) scanOne(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var createdAt int64

	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.CreatedAt = time.UnixMilli(createdAt).UTC()

	return a, nil
}

func (r *SQLiteRepository) UpdatePasswordHash(ctx context.Context, id models.AccountID, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET password_hash = ? WHERE id = ?`, hash, id)
	return expectOneRow(res, err)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id models.AccountID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	return expectOneRow(res, err)
}

// expectOneRow maps an Exec outcome that touched no row to common.ErrNotFound.
func expectOneRow(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
