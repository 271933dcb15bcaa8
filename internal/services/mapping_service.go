package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"datamap-backend/internal/errs"
	"datamap-backend/internal/models"
	"datamap-backend/internal/repositories"
)

// MappingService owns mapping files and their review workflow. The repo is
// nil when the database is unconfigured; every operation then fails with a
// configuration error instead of crashing.
type MappingService struct {
	repo *repositories.MappingRepository
}

func NewMappingService(repo *repositories.MappingRepository) *MappingService {
	return &MappingService{repo: repo}
}

func (s *MappingService) ready() error {
	if s.repo == nil {
		return errs.Wrap(errs.ErrNotConfigured, "database")
	}
	return nil
}

// SaveFile validates the payload and persists it with replace semantics:
// the incoming row set fully supersedes whatever the file had before.
func (s *MappingService) SaveFile(ctx context.Context, req *models.MappingFileRequest) (uuid.UUID, error) {
	if err := s.ready(); err != nil {
		return uuid.Nil, err
	}
	if err := validateFileRequest(req); err != nil {
		return uuid.Nil, err
	}
	return s.repo.SaveFile(ctx, req)
}

func (s *MappingService) LoadAll(ctx context.Context) ([]models.MappingFile, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.repo.LoadAll(ctx)
}

func (s *MappingService) UpdateRowStatus(ctx context.Context, rowID string, req *models.UpdateRowStatusRequest) error {
	if err := s.ready(); err != nil {
		return err
	}

	id, err := uuid.Parse(rowID)
	if err != nil {
		return fmt.Errorf("%w: invalid row id %q", errs.ErrInvalidInput, rowID)
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
	}

	return s.repo.UpdateRowStatus(ctx, id, status, req.Reviewer)
}

func (s *MappingService) AddRowComment(ctx context.Context, rowID, comment string) error {
	if err := s.ready(); err != nil {
		return err
	}

	id, err := uuid.Parse(rowID)
	if err != nil {
		return fmt.Errorf("%w: invalid row id %q", errs.ErrInvalidInput, rowID)
	}

	return s.repo.AddComment(ctx, id, comment)
}

func validateFileRequest(req *models.MappingFileRequest) error {
	if req.Status != "" {
		if _, err := models.ParseStatus(req.Status); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
		}
	}

	for i, row := range req.Rows {
		if row.Status != "" {
			if _, err := models.ParseStatus(row.Status); err != nil {
				return fmt.Errorf("%w: row %d: %v", errs.ErrInvalidInput, i, err)
			}
		}
		if st := row.SourceColumn.SourceType; st != "" && st != models.SourceTypeSRZADLS {
			return fmt.Errorf("%w: row %d: unknown source type %q", errs.ErrInvalidInput, i, st)
		}
		if tt := row.TargetColumn.TargetType; tt != "" && tt != models.TargetTypeCZADLS && tt != models.TargetTypeSynapseTable {
			return fmt.Errorf("%w: row %d: unknown target type %q", errs.ErrInvalidInput, i, tt)
		}
	}

	return nil
}
