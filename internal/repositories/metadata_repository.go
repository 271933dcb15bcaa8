package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"datamap-backend/internal/errs"
	"datamap-backend/internal/models"
	"datamap-backend/internal/utils"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so catalog upserts can
// run standalone or inside a mapping-save transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type MetadataRepository struct {
	pool *pgxpool.Pool
}

func NewMetadataRepository(pool *pgxpool.Pool) *MetadataRepository {
	return &MetadataRepository{pool: pool}
}

// UpsertEntry inserts a catalog entry if the composite key is absent and
// returns the entry id either way. An existing entry is never modified:
// re-saving a mapping file must not overwrite curated descriptions.
func (r *MetadataRepository) UpsertEntry(ctx context.Context, q DBTX, malcode, tableName, columnName, dataType string, business *models.BusinessMetadata, createdBy string) (uuid.UUID, error) {
	if dataType == "" {
		dataType = "string"
	}
	if createdBy == "" {
		createdBy = "system"
	}

	var malcodeDesc, tableDesc, columnDesc *string
	if business != nil {
		malcodeDesc = business.MalcodeDescription
		tableDesc = business.TableDescription
		columnDesc = business.ColumnDescription
	}

	insert := `
		INSERT INTO metadata_catalog (
			malcode, table_name, column_name, data_type,
			malcode_description, table_description, column_description, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (malcode, table_name, column_name) DO NOTHING
	`

	if _, err := q.Exec(ctx, insert, malcode, tableName, columnName, dataType, malcodeDesc, tableDesc, columnDesc, createdBy); err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert metadata entry: %w", err)
	}

	var id uuid.UUID
	query := `SELECT id FROM metadata_catalog WHERE malcode = $1 AND table_name = $2 AND column_name = $3`
	if err := q.QueryRow(ctx, query, malcode, tableName, columnName).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to read back metadata entry: %w", err)
	}

	return id, nil
}

// Search matches the term case-insensitively against the composite key parts
// and every description field of active entries.
func (r *MetadataRepository) Search(ctx context.Context, term string) ([]models.SearchResult, error) {
	pattern := "%" + term + "%"

	query := `
		SELECT malcode, table_name, column_name,
			COALESCE(column_description, table_description, malcode_description) AS business_description,
			data_type
		FROM metadata_catalog
		WHERE is_active = TRUE AND (
			malcode ILIKE $1 OR
			table_name ILIKE $1 OR
			column_name ILIKE $1 OR
			malcode_description ILIKE $1 OR
			table_description ILIKE $1 OR
			column_description ILIKE $1
		)
		ORDER BY malcode, table_name, column_name
	`

	rows, err := r.pool.Query(ctx, query, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var res models.SearchResult
		if err := rows.Scan(&res.Malcode, &res.TableName, &res.ColumnName, &res.BusinessDescription, &res.DataType); err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// ListMalcodes returns distinct active malcodes with earliest created_at and
// latest updated_at aggregated across all rows sharing the malcode.
func (r *MetadataRepository) ListMalcodes(ctx context.Context) ([]models.MalcodeInfo, error) {
	query := `
		SELECT malcode,
			MAX(malcode_description) AS business_description,
			MIN(created_at) AS created_at,
			MAX(updated_at) AS updated_at
		FROM metadata_catalog
		WHERE is_active = TRUE
		GROUP BY malcode
		ORDER BY malcode
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var malcodes []models.MalcodeInfo
	for rows.Next() {
		var m models.MalcodeInfo
		if err := rows.Scan(&m.Malcode, &m.BusinessDescription, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.ID = utils.MalcodeID(m.Malcode)
		m.IsActive = true
		malcodes = append(malcodes, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return malcodes, nil
}

// ListTables returns distinct active tables under a malcode, same aggregation
// as ListMalcodes.
func (r *MetadataRepository) ListTables(ctx context.Context, malcode string) ([]models.TableInfo, error) {
	query := `
		SELECT table_name,
			MAX(table_description) AS business_description,
			MIN(created_at) AS created_at,
			MAX(updated_at) AS updated_at
		FROM metadata_catalog
		WHERE malcode = $1 AND is_active = TRUE
		GROUP BY table_name
		ORDER BY table_name
	`

	rows, err := r.pool.Query(ctx, query, malcode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []models.TableInfo
	for rows.Next() {
		var t models.TableInfo
		if err := rows.Scan(&t.TableName, &t.BusinessDescription, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.ID = utils.TableID(malcode, t.TableName)
		t.MalcodeID = utils.MalcodeID(malcode)
		t.IsActive = true
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tables, nil
}

// ListColumns returns the full column metadata rows under a malcode and table.
func (r *MetadataRepository) ListColumns(ctx context.Context, malcode, tableName string) ([]models.ColumnInfo, error) {
	query := `
		SELECT column_name, column_description, data_type,
			is_primary_key, is_nullable, default_value,
			created_at, updated_at
		FROM metadata_catalog
		WHERE malcode = $1 AND table_name = $2 AND is_active = TRUE
		ORDER BY column_name
	`

	rows, err := r.pool.Query(ctx, query, malcode, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []models.ColumnInfo
	for rows.Next() {
		var c models.ColumnInfo
		if err := rows.Scan(&c.ColumnName, &c.BusinessDescription, &c.DataType, &c.IsPrimaryKey, &c.IsNullable, &c.DefaultValue, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.ID = utils.ColumnID(malcode, tableName, c.ColumnName)
		c.TableID = utils.TableID(malcode, tableName)
		c.IsActive = true
		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return columns, nil
}

// CreateMalcode inserts the placeholder row that establishes a malcode with
// no real columns yet.
func (r *MetadataRepository) CreateMalcode(ctx context.Context, malcode string, description *string, createdBy string) (string, error) {
	query := `
		INSERT INTO metadata_catalog (
			malcode, table_name, column_name,
			malcode_description, table_description, column_description,
			data_type, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		malcode, models.PlaceholderTable, models.PlaceholderMalcodeCol,
		description, "Metadata table for malcode", "Malcode information placeholder",
		"string", createdBy,
	)
	if err != nil {
		return "", translateConstraintError(err, "malcode")
	}

	return utils.MalcodeID(malcode), nil
}

// CreateTable inserts the placeholder row that establishes a table under a
// malcode.
func (r *MetadataRepository) CreateTable(ctx context.Context, malcode, tableName string, description *string, createdBy string) (string, error) {
	query := `
		INSERT INTO metadata_catalog (
			malcode, table_name, column_name,
			table_description, column_description,
			data_type, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		malcode, tableName, models.PlaceholderTableCol,
		description, "Table information placeholder",
		"string", createdBy,
	)
	if err != nil {
		return "", translateConstraintError(err, "table")
	}

	return utils.TableID(malcode, tableName), nil
}

// CreateColumn inserts a full column metadata row.
func (r *MetadataRepository) CreateColumn(ctx context.Context, req *models.CreateColumnRequest) (string, error) {
	dataType := req.DataType
	if dataType == "" {
		dataType = "string"
	}
	isNullable := true
	if req.IsNullable != nil {
		isNullable = *req.IsNullable
	}

	query := `
		INSERT INTO metadata_catalog (
			malcode, table_name, column_name,
			column_description, data_type, is_primary_key, is_nullable, default_value,
			created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		req.Malcode, req.TableName, req.ColumnName,
		req.Description, dataType, req.IsPrimaryKey, isNullable, req.DefaultValue,
		req.CreatedBy,
	)
	if err != nil {
		return "", translateConstraintError(err, "column")
	}

	return utils.ColumnID(req.Malcode, req.TableName, req.ColumnName), nil
}

// UpdateDescriptions is the explicit description-editing path; the mapping
// save upsert never modifies existing entries.
func (r *MetadataRepository) UpdateDescriptions(ctx context.Context, req *models.UpdateDescriptionsRequest) error {
	var tag pgconn.CommandTag
	var err error

	switch {
	case req.ColumnName != "":
		query := `
			UPDATE metadata_catalog
			SET column_description = COALESCE($4, column_description),
				table_description = COALESCE($5, table_description),
				malcode_description = COALESCE($6, malcode_description),
				updated_at = NOW()
			WHERE malcode = $1 AND table_name = $2 AND column_name = $3 AND is_active = TRUE
		`
		tag, err = r.pool.Exec(ctx, query, req.Malcode, req.TableName, req.ColumnName,
			req.ColumnDescription, req.TableDescription, req.MalcodeDescription)
	case req.TableName != "":
		query := `
			UPDATE metadata_catalog
			SET table_description = COALESCE($3, table_description),
				malcode_description = COALESCE($4, malcode_description),
				updated_at = NOW()
			WHERE malcode = $1 AND table_name = $2 AND is_active = TRUE
		`
		tag, err = r.pool.Exec(ctx, query, req.Malcode, req.TableName,
			req.TableDescription, req.MalcodeDescription)
	default:
		query := `
			UPDATE metadata_catalog
			SET malcode_description = COALESCE($2, malcode_description),
				updated_at = NOW()
			WHERE malcode = $1 AND is_active = TRUE
		`
		tag, err = r.pool.Exec(ctx, query, req.Malcode, req.MalcodeDescription)
	}

	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// translateConstraintError maps a unique-violation to the conflict sentinel.
func translateConstraintError(err error, entity string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s %w", entity, errs.ErrConflict)
	}
	return err
}
