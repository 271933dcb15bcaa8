package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"datamap-backend/internal/database"
	"datamap-backend/internal/errs"
	"datamap-backend/internal/repositories"
)

// DDLService provisions the chosen schema and runs administrative SQL.
type DDLService struct {
	repo *repositories.DDLRepository
	pool *pgxpool.Pool
}

func NewDDLService(repo *repositories.DDLRepository, pool *pgxpool.Pool) *DDLService {
	return &DDLService{repo: repo, pool: pool}
}

func (s *DDLService) ready() error {
	if s.repo == nil || s.pool == nil {
		return errs.Wrap(errs.ErrNotConfigured, "database")
	}
	return nil
}

// CreateTables provisions the schema by running the ordered migrations.
func (s *DDLService) CreateTables(ctx context.Context) ([]map[string]any, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := database.RunMigrations(s.pool); err != nil {
		return nil, err
	}
	return s.repo.VerifyTables(ctx)
}

func (s *DDLService) DropTables(ctx context.Context) ([]map[string]any, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.repo.DropTables(ctx)
}

func (s *DDLService) VerifyTables(ctx context.Context) ([]map[string]any, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.repo.VerifyTables(ctx)
}

func (s *DDLService) ExecuteCustomSQL(ctx context.Context, script string) ([]map[string]any, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.repo.ExecuteScript(ctx, script)
}

func (s *DDLService) Ping(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.repo.Ping(ctx)
}
