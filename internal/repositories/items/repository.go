// Package items persists lost and found reports. Each variant lives in its
// own table; both share a shape and reference accounts(id) with
// ON DELETE CASCADE.
package items

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/models"
)

type Repository interface {
	// Create stores it and fills in ID and CreatedAt. A missing owner yields
	// common.ErrNotFound.
	Create(ctx context.Context, it *models.Item) (*models.Item, error)
	GetByID(ctx context.Context, v models.Variant, id models.ItemID) (*models.ItemView, error)
	// List returns every record of the variant, newest first.
	List(ctx context.Context, v models.Variant) ([]models.ItemView, error)
	// Search returns records whose name, description, location or owner
	// username contains query, ignoring case, newest first. An empty query
	// behaves like List.
	Search(ctx context.Context, v models.Variant, query string) ([]models.ItemView, error)
}

type table struct {
	name    string
	dateCol string
}

func tableFor(v models.Variant) (table, error) {
	switch v {
	case models.Lost:
		return table{name: "lost_items", dateCol: "date_lost"}, nil
	case models.Found:
		return table{name: "found_items", dateCol: "date_found"}, nil
	default:
		return table{}, fmt.Errorf("unknown item variant %q", v)
	}
}
