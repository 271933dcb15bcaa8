package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"datamap-backend/internal/errs"
	"datamap-backend/internal/models"
)

type MappingRepository struct {
	pool     *pgxpool.Pool
	metadata *MetadataRepository
}

func NewMappingRepository(pool *pgxpool.Pool, metadata *MetadataRepository) *MappingRepository {
	return &MappingRepository{pool: pool, metadata: metadata}
}

// SaveFile upserts a mapping file by name and replaces its entire row set.
// The whole operation runs in one transaction, serialized per file name with
// an advisory lock so concurrent saves of the same name cannot interleave
// their delete/insert phases and readers never observe a partial replace.
func (r *MappingRepository) SaveFile(ctx context.Context, req *models.MappingFileRequest) (uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, req.Name); err != nil {
		return uuid.Nil, fmt.Errorf("failed to lock mapping file name: %w", err)
	}

	fileStatus := req.Status
	if fileStatus == "" {
		fileStatus = string(models.StatusDraft)
	}

	var fileID uuid.UUID
	upsertFile := `
		INSERT INTO mapping_files (name, description, source_system, target_system, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			source_system = EXCLUDED.source_system,
			target_system = EXCLUDED.target_system,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id
	`
	err = tx.QueryRow(ctx, upsertFile,
		req.Name, req.Description, req.SourceSystem, req.TargetSystem, fileStatus, req.CreatedBy,
	).Scan(&fileID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert mapping file: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM mapping_rows WHERE file_id = $1`, fileID); err != nil {
		return uuid.Nil, fmt.Errorf("failed to clear mapping rows: %w", err)
	}

	insertRow := `
		INSERT INTO mapping_rows (
			file_id,
			source_malcode, source_table, source_column, source_type,
			target_malcode, target_table, target_column, target_type,
			transformation, join_clause, status, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for i, row := range req.Rows {
		src := row.SourceColumn
		tgt := row.TargetColumn

		if _, err := r.metadata.UpsertEntry(ctx, tx, src.Malcode, src.Table, src.Column, src.DataType, src.Business, "system"); err != nil {
			return uuid.Nil, fmt.Errorf("row %d: %w", i, err)
		}
		if _, err := r.metadata.UpsertEntry(ctx, tx, tgt.Malcode, tgt.Table, tgt.Column, tgt.DataType, tgt.Business, "system"); err != nil {
			return uuid.Nil, fmt.Errorf("row %d: %w", i, err)
		}

		sourceType := src.SourceType
		if sourceType == "" {
			sourceType = models.SourceTypeSRZADLS
		}
		targetType := tgt.TargetType
		if targetType == "" {
			targetType = models.TargetTypeCZADLS
		}
		rowStatus := row.Status
		if rowStatus == "" {
			rowStatus = string(models.StatusDraft)
		}
		createdBy := row.CreatedBy
		if createdBy == "" {
			createdBy = "API User"
		}

		_, err := tx.Exec(ctx, insertRow,
			fileID,
			src.Malcode, src.Table, src.Column, sourceType,
			tgt.Malcode, tgt.Table, tgt.Column, targetType,
			row.Transformation, row.Join, rowStatus, createdBy,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert mapping row %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit mapping file: %w", err)
	}

	return fileID, nil
}

// LoadAll returns every mapping file with its rows embedded, each row joined
// against the catalog to inline source and target column details.
func (r *MappingRepository) LoadAll(ctx context.Context) ([]models.MappingFile, error) {
	filesQuery := `
		SELECT id, name, description, source_system, target_system, status, created_by, created_at, updated_at
		FROM mapping_files
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, filesQuery)
	if err != nil {
		return nil, err
	}

	var files []models.MappingFile
	for rows.Next() {
		var f models.MappingFile
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.SourceSystem, &f.TargetSystem, &f.Status, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		files = append(files, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range files {
		fileRows, err := r.loadRows(ctx, files[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load rows for file %q: %w", files[i].Name, err)
		}
		files[i].Rows = fileRows
	}

	return files, nil
}

func (r *MappingRepository) loadRows(ctx context.Context, fileID uuid.UUID) ([]models.MappingRow, error) {
	query := `
		SELECT
			mr.id, mr.transformation, mr.join_clause, mr.status,
			mr.created_by, mr.created_at, mr.updated_at, mr.reviewer, mr.reviewed_at, mr.comments,
			mr.source_malcode, mr.source_table, mr.source_column, mr.source_type,
			mr.target_malcode, mr.target_table, mr.target_column, mr.target_type,
			src.data_type, src.malcode_description, src.table_description, src.column_description,
			tgt.data_type, tgt.malcode_description, tgt.table_description, tgt.column_description
		FROM mapping_rows mr
		LEFT JOIN metadata_catalog src ON (
			mr.source_malcode = src.malcode AND
			mr.source_table = src.table_name AND
			mr.source_column = src.column_name
		)
		LEFT JOIN metadata_catalog tgt ON (
			mr.target_malcode = tgt.malcode AND
			mr.target_table = tgt.table_name AND
			mr.target_column = tgt.column_name
		)
		WHERE mr.file_id = $1
		ORDER BY mr.created_at
	`

	rows, err := r.pool.Query(ctx, query, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.MappingRow
	for rows.Next() {
		var row models.MappingRow
		var commentsRaw []byte
		var srcDataType, tgtDataType *string
		srcBusiness := &models.BusinessMetadata{}
		tgtBusiness := &models.BusinessMetadata{}

		err := rows.Scan(
			&row.ID, &row.Transformation, &row.Join, &row.Status,
			&row.CreatedBy, &row.CreatedAt, &row.UpdatedAt, &row.Reviewer, &row.ReviewedAt, &commentsRaw,
			&row.SourceColumn.Malcode, &row.SourceColumn.Table, &row.SourceColumn.Column, &row.SourceColumn.SourceType,
			&row.TargetColumn.Malcode, &row.TargetColumn.Table, &row.TargetColumn.Column, &row.TargetColumn.TargetType,
			&srcDataType, &srcBusiness.MalcodeDescription, &srcBusiness.TableDescription, &srcBusiness.ColumnDescription,
			&tgtDataType, &tgtBusiness.MalcodeDescription, &tgtBusiness.TableDescription, &tgtBusiness.ColumnDescription,
		)
		if err != nil {
			return nil, err
		}

		row.SourceColumn.ID = "src_" + row.ID.String()
		row.SourceColumn.DataType = stringOrDefault(srcDataType, "string")
		row.SourceColumn.Business = srcBusiness
		row.TargetColumn.ID = "tgt_" + row.ID.String()
		row.TargetColumn.DataType = stringOrDefault(tgtDataType, "string")
		row.TargetColumn.Business = tgtBusiness

		row.Comments = []string{}
		if len(commentsRaw) > 0 {
			// a malformed stored list degrades to empty, never fails the load
			_ = json.Unmarshal(commentsRaw, &row.Comments)
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateRowStatus moves a row through the review workflow. The current status
// is read under a row lock so the transition check and the write are atomic.
// A reviewer, when given, is stamped together with reviewed_at; otherwise
// both keep their prior values.
func (r *MappingRepository) UpdateRowStatus(ctx context.Context, rowID uuid.UUID, status models.Status, reviewer *string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM mapping_rows WHERE id = $1 FOR UPDATE`, rowID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}

	currentStatus, err := models.ParseStatus(current)
	if err != nil {
		return err
	}
	if !models.CanTransition(currentStatus, status) {
		return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidTransition, currentStatus, status)
	}

	if reviewer != nil {
		_, err = tx.Exec(ctx, `
			UPDATE mapping_rows
			SET status = $2, reviewer = $3, reviewed_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`, rowID, string(status), *reviewer)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE mapping_rows
			SET status = $2, updated_at = NOW()
			WHERE id = $1
		`, rowID, string(status))
	}
	if err != nil {
		return fmt.Errorf("failed to update row status: %w", err)
	}

	return tx.Commit(ctx)
}

// AddComment appends a comment to a row's comment list in a single database-
// side jsonb append, so concurrent appends cannot lose each other.
func (r *MappingRepository) AddComment(ctx context.Context, rowID uuid.UUID, comment string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE mapping_rows
		SET comments = comments || to_jsonb($2::text), updated_at = NOW()
		WHERE id = $1
	`, rowID, comment)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func stringOrDefault(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}
