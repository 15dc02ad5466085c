package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/lostfound/internal/config"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/repositories/repomanager"
)

type SchemaService struct {
	base
}

func NewSchemaService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *SchemaService {
	return &SchemaService{base: newBase(db, m, cfg, log)}
}

// EnsureSchema creates the accounts, lost_items and found_items tables if
// they are missing. Running it against an initialized database changes nothing.
func (s *SchemaService) EnsureSchema(ctx context.Context) error {
	err := s.run(ctx, "ensure schema", func(ctx context.Context) error {
		return s.repomanager.RunMigrations(ctx, s.db)
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "schema ready")
	return nil
}
