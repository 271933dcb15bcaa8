package services

import (
	"context"

	"datamap-backend/internal/errs"
	"datamap-backend/internal/models"
	"datamap-backend/internal/repositories"
)

// MetadataService owns the searchable malcode/table/column catalog.
type MetadataService struct {
	repo *repositories.MetadataRepository
}

func NewMetadataService(repo *repositories.MetadataRepository) *MetadataService {
	return &MetadataService{repo: repo}
}

func (s *MetadataService) ready() error {
	if s.repo == nil {
		return errs.Wrap(errs.ErrNotConfigured, "database")
	}
	return nil
}

func (s *MetadataService) Search(ctx context.Context, term string) ([]models.SearchResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, term)
}

func (s *MetadataService) ListMalcodes(ctx context.Context) ([]models.MalcodeInfo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.repo.ListMalcodes(ctx)
}

// GetMalcode looks a malcode up by name.
func (s *MetadataService) GetMalcode(ctx context.Context, malcode string) (*models.MalcodeInfo, error) {
	malcodes, err := s.ListMalcodes(ctx)
	if err != nil {
		return nil, err
	}

	for i := range malcodes {
		if malcodes[i].Malcode == malcode {
			return &malcodes[i], nil
		}
	}
	return nil, errs.Wrap(errs.ErrNotFound, "malcode")
}

// ListTablesByMalcodeID resolves a synthetic malcode ID back to its malcode.
// IDs are a pure function of the key, so resolution is a recompute-and-match
// over the distinct malcodes, never a stored reverse map. An unknown ID
// yields an empty list.
func (s *MetadataService) ListTablesByMalcodeID(ctx context.Context, malcodeID string) ([]models.TableInfo, error) {
	malcodes, err := s.ListMalcodes(ctx)
	if err != nil {
		return nil, err
	}

	for _, m := range malcodes {
		if m.ID == malcodeID {
			return s.repo.ListTables(ctx, m.Malcode)
		}
	}
	return []models.TableInfo{}, nil
}

// ListColumnsByTableID resolves a synthetic table ID the same way, walking
// the malcode/table tree until the recomputed ID matches.
func (s *MetadataService) ListColumnsByTableID(ctx context.Context, tableID string) ([]models.ColumnInfo, error) {
	malcodes, err := s.ListMalcodes(ctx)
	if err != nil {
		return nil, err
	}

	for _, m := range malcodes {
		tables, err := s.repo.ListTables(ctx, m.Malcode)
		if err != nil {
			return nil, err
		}
		for _, t := range tables {
			if t.ID == tableID {
				return s.repo.ListColumns(ctx, m.Malcode, t.TableName)
			}
		}
	}
	return []models.ColumnInfo{}, nil
}

func (s *MetadataService) CreateMalcode(ctx context.Context, req *models.CreateMalcodeRequest) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if req.CreatedBy == "" {
		req.CreatedBy = "system"
	}
	return s.repo.CreateMalcode(ctx, req.Malcode, req.Description, req.CreatedBy)
}

func (s *MetadataService) CreateTable(ctx context.Context, req *models.CreateTableRequest) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if req.CreatedBy == "" {
		req.CreatedBy = "system"
	}
	return s.repo.CreateTable(ctx, req.Malcode, req.TableName, req.Description, req.CreatedBy)
}

func (s *MetadataService) CreateColumn(ctx context.Context, req *models.CreateColumnRequest) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if req.CreatedBy == "" {
		req.CreatedBy = "system"
	}
	return s.repo.CreateColumn(ctx, req)
}

func (s *MetadataService) UpdateDescriptions(ctx context.Context, req *models.UpdateDescriptionsRequest) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.repo.UpdateDescriptions(ctx, req)
}
