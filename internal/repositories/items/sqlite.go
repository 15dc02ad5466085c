package items

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/models"
	"github.com/dmitrijs2005/lostfound/internal/repositories/dberr"
)

// SQLite's built-in lower() only folds ASCII.
func init() {
	if err := sqlite.RegisterDeterministicScalarFunction("unicode_lower", 1, unicodeLower); err != nil {
		panic(err)
	}
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// SQLiteRepository implements Repository on SQLite. Dates are stored as
// YYYY-MM-DD text and created_at as unix milliseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, it *models.Item) (*models.Item, error) {
	t, err := tableFor(it.Variant)
	if err != nil {
		return nil, err
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`INSERT INTO %s (user_id, item_name, description, location, %s, contact_info, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, t.name, t.dateCol)

	res, err := r.db.ExecContext(ctx, query,
		it.OwnerID, it.Name, it.Description, it.Location,
		it.Date.Format(models.DateLayout), it.ContactInfo, it.CreatedAt.UnixMilli())
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	it.ID = models.ItemID(id)
	it.CreatedAt = time.UnixMilli(it.CreatedAt.UnixMilli()).UTC()

	return it, nil
}

func (r *SQLiteRepository) selectFrom(t table) string {
	return fmt.Sprintf(`SELECT i.id, i.user_id, i.item_name, i.description, i.location, i.%s, i.contact_info, i.created_at, a.username
		FROM %s i JOIN accounts a ON a.id = i.user_id`, t.dateCol, t.name)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, v models.Variant, id models.ItemID) (*models.ItemView, error) {
	t, err := tableFor(v)
	if err != nil {
		return nil, err
	}

	query := r.selectFrom(t) + ` WHERE i.id = ?`

	view, err := scanSQLiteView(r.db.QueryRowContext(ctx, query, id), v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return view, nil
}

func (r *SQLiteRepository) List(ctx context.Context, v models.Variant) ([]models.ItemView, error) {
	return r.Search(ctx, v, "")
}

func (r *SQLiteRepository) Search(ctx context.Context, v models.Variant, query string) ([]models.ItemView, error) {
	t, err := tableFor(v)
	if err != nil {
		return nil, err
	}

	q := r.selectFrom(t)
	var args []any
	if query != "" {
		needle := strings.ToLower(query)
		q += ` WHERE instr(unicode_lower(i.item_name), ?) > 0
			OR instr(unicode_lower(i.description), ?) > 0
			OR instr(unicode_lower(i.location), ?) > 0
			OR instr(unicode_lower(a.username), ?) > 0`
		args = []any{needle, needle, needle, needle}
	}
	q += ` ORDER BY i.id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.ItemView{}
	for rows.Next() {
		view, err := scanSQLiteView(rows, v)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteView(row rowScanner, v models.Variant) (*models.ItemView, error) {
	view := &models.ItemView{}
	view.Variant = v

	var date string
	var createdAt int64
	err := row.Scan(&view.ID, &view.OwnerID, &view.Name, &view.Description, &view.Location,
		&date, &view.ContactInfo, &createdAt, &view.OwnerUsername)
	if err != nil {
		return nil, err
	}

	if view.Date, err = models.ParseDate(date); err != nil {
		return nil, fmt.Errorf("stored date %q: %w", date, err)
	}
	view.CreatedAt = time.UnixMilli(createdAt).UTC()

	return view, nil
}
