package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/models"
	"github.com/dmitrijs2005/lostfound/internal/repositories/dberr"
)

// PostgresRepository implements Repository on PostgreSQL.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, it *models.Item) (*models.Item, error) {
	t, err := tableFor(it.Variant)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, item_name, description, location, %s, contact_info)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `, t.name, t.dateCol)

	err = r.db.QueryRowContext(ctx, query,
		it.OwnerID, it.Name, it.Description, it.Location,
		it.Date.Format(models.DateLayout), it.ContactInfo).Scan(&it.ID, &it.CreatedAt)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return it, nil
}

func (r *PostgresRepository) selectFrom(t table) string {
	return fmt.Sprintf(
		`SELECT i.id, i.user_id, i.item_name, i.description, i.location, i.%s, i.contact_info, i.created_at, a.username
		 FROM %s i JOIN accounts a ON a.id = i.user_id
		 `, t.dateCol, t.name)
}

func (r *PostgresRepository) GetByID(ctx context.Context, v models.Variant, id models.ItemID) (*models.ItemView, error) {
	t, err := tableFor(v)
	if err != nil {
		return nil, err
	}

	query := r.selectFrom(t) + `WHERE i.id = $1`

	view, err := scanPostgresView(r.db.QueryRowContext(ctx, query, id), v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return view, nil
}

func (r *PostgresRepository) List(ctx context.Context, v models.Variant) ([]models.ItemView, error) {
	return r.Search(ctx, v, "")
}

func (r *PostgresRepository) Search(ctx context.Context, v models.Variant, query string) ([]models.ItemView, error) {
	t, err := tableFor(v)
	if err != nil {
		return nil, err
	}

	q := r.selectFrom(t)
	var args []any
	if query != "" {
		q += `WHERE strpos(lower(i.item_name), $1) > 0
		    OR strpos(lower(i.description), $1) > 0
		    OR strpos(lower(i.location), $1) > 0
		    OR strpos(lower(a.username), $1) > 0
		 `
		args = []any{strings.ToLower(query)}
	}
	q += `ORDER BY i.id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.ItemView{}
	for rows.Next() {
		view, err := scanPostgresView(rows, v)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func scanPostgresView(row rowScanner, v models.Variant) (*models.ItemView, error) {
	view := &models.ItemView{}
	view.Variant = v
	err := row.Scan(&view.ID, &view.OwnerID, &view.Name, &view.Description, &view.Location,
		&view.Date, &view.ContactInfo, &view.CreatedAt, &view.OwnerUsername)
	if err != nil {
		return nil, err
	}
	return view, nil
}
