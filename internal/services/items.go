package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/config"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/models"
	"github.com/dmitrijs2005/lostfound/internal/repositories/repomanager"
)

// ItemReport is the user-supplied part of a lost or found report.
// ContactInfo is optional.
type ItemReport struct {
	Name        string
	Description string
	Location    string
	Date        string
	ContactInfo string
}

type ItemService struct {
	base
}

func NewItemService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *ItemService {
	return &ItemService{base: newBase(db, m, cfg, log)}
}

// ReportItem validates r and stores it as a v item owned by owner. The owner
// id is trusted; a missing owner yields common.ErrNotFound.
func (s *ItemService) ReportItem(ctx context.Context, owner models.AccountID, v models.Variant, r ItemReport) (models.ItemID, error) {
	if !v.Valid() {
		return 0, common.NewValidationError(common.RuleUnknownVariant, "kind")
	}

	it := &models.Item{
		Variant:     v,
		OwnerID:     owner,
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Location:    strings.TrimSpace(r.Location),
		ContactInfo: strings.TrimSpace(r.ContactInfo),
	}
	dateStr := strings.TrimSpace(r.Date)

	for _, f := range []struct{ name, value string }{
		{"name", it.Name},
		{"description", it.Description},
		{"location", it.Location},
		{"date", dateStr},
	} {
		if f.value == "" {
			return 0, common.NewValidationError(common.RuleEmptyField, f.name)
		}
	}

	date, err := models.ParseDate(dateStr)
	if err != nil {
		return 0, common.NewValidationError(common.RuleInvalidDate, "date")
	}
	it.Date = date

	err = s.run(ctx, "report item", func(ctx context.Context) error {
		var err error
		it, err = s.repomanager.Items(s.db).Create(ctx, it)
		return err
	}, common.ErrNotFound)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "report for unknown owner", "owner_id", owner)
		}
		return 0, err
	}

	s.log.Info(ctx, "item reported", "variant", v, "item_id", it.ID, "owner_id", owner)
	return it.ID, nil
}

// ListItems returns every v item with its reporter's username, newest first.
func (s *ItemService) ListItems(ctx context.Context, v models.Variant) ([]models.ItemView, error) {
	return s.Search(ctx, v, "")
}

// Search returns the v items whose name, description, location or reporter
// username contains query, ignoring case, newest first. An empty query
// returns everything.
func (s *ItemService) Search(ctx context.Context, v models.Variant, query string) ([]models.ItemView, error) {
	if !v.Valid() {
		return nil, common.NewValidationError(common.RuleUnknownVariant, "kind")
	}

	var out []models.ItemView
	err := s.run(ctx, "search items", func(ctx context.Context) error {
		var err error
		out, err = s.repomanager.Items(s.db).Search(ctx, v, query)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug(ctx, "search done", "variant", v, "query", query, "results", len(out))
	return out, nil
}

// GetItem returns one v item by id.
func (s *ItemService) GetItem(ctx context.Context, v models.Variant, id models.ItemID) (*models.ItemView, error) {
	if !v.Valid() {
		return nil, common.NewValidationError(common.RuleUnknownVariant, "kind")
	}

	var out *models.ItemView
	err := s.run(ctx, "get item", func(ctx context.Context) error {
		var err error
		out, err = s.repomanager.Items(s.db).GetByID(ctx, v, id)
		return err
	}, common.ErrNotFound)
	return out, err
}
