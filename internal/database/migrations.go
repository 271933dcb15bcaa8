package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func RunMigrations(pool *pgxpool.Pool) error {
	ctx := context.Background()

	migrations := []string{
		createMetadataCatalogTable,
		createMappingFilesTable,
		createMappingRowsTable,
	}

	for i, migration := range migrations {
		log.Printf("Running migration %d/%d", i+1, len(migrations))
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Println("All migrations completed successfully")
	return nil
}

const createMetadataCatalogTable = `
CREATE TABLE IF NOT EXISTS metadata_catalog (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),

  malcode TEXT NOT NULL,
  table_name TEXT NOT NULL,
  column_name TEXT NOT NULL,

  malcode_description TEXT,
  table_description TEXT,
  column_description TEXT,
  data_type TEXT NOT NULL DEFAULT 'string',
  is_primary_key BOOLEAN NOT NULL DEFAULT FALSE,
  is_nullable BOOLEAN NOT NULL DEFAULT TRUE,
  default_value TEXT,

  created_by TEXT NOT NULL DEFAULT 'system',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  is_active BOOLEAN NOT NULL DEFAULT TRUE,

  CONSTRAINT uq_metadata_catalog_composite UNIQUE (malcode, table_name, column_name)
);

CREATE INDEX IF NOT EXISTS idx_metadata_catalog_malcode ON metadata_catalog(malcode);
CREATE INDEX IF NOT EXISTS idx_metadata_catalog_table_name ON metadata_catalog(table_name);
CREATE INDEX IF NOT EXISTS idx_metadata_catalog_column_name ON metadata_catalog(column_name);
CREATE INDEX IF NOT EXISTS idx_metadata_catalog_active ON metadata_catalog(is_active);
`

const createMappingFilesTable = `
CREATE TABLE IF NOT EXISTS mapping_files (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  source_system TEXT NOT NULL,
  target_system TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'draft',
  created_by TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

  CONSTRAINT chk_mapping_files_status CHECK (status IN ('draft', 'pending', 'approved', 'rejected'))
);

CREATE INDEX IF NOT EXISTS idx_mapping_files_name ON mapping_files(name);
CREATE INDEX IF NOT EXISTS idx_mapping_files_status ON mapping_files(status);
`

const createMappingRowsTable = `
CREATE TABLE IF NOT EXISTS mapping_rows (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  file_id UUID NOT NULL REFERENCES mapping_files(id) ON DELETE CASCADE,

  source_malcode TEXT NOT NULL,
  source_table TEXT NOT NULL,
  source_column TEXT NOT NULL,
  source_type TEXT NOT NULL DEFAULT 'SRZ_ADLS',

  target_malcode TEXT NOT NULL,
  target_table TEXT NOT NULL,
  target_column TEXT NOT NULL,
  target_type TEXT NOT NULL DEFAULT 'CZ_ADLS',

  transformation TEXT,
  join_clause TEXT,

  status TEXT NOT NULL DEFAULT 'draft',
  created_by TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  reviewer TEXT,
  reviewed_at TIMESTAMP WITH TIME ZONE,
  comments JSONB NOT NULL DEFAULT '[]',

  CONSTRAINT chk_mapping_rows_status CHECK (status IN ('draft', 'pending', 'approved', 'rejected')),
  CONSTRAINT chk_mapping_rows_source_type CHECK (source_type IN ('SRZ_ADLS')),
  CONSTRAINT chk_mapping_rows_target_type CHECK (target_type IN ('CZ_ADLS', 'SYNAPSE_TABLE'))
);

CREATE INDEX IF NOT EXISTS idx_mapping_rows_file_id ON mapping_rows(file_id);
CREATE INDEX IF NOT EXISTS idx_mapping_rows_status ON mapping_rows(status);
CREATE INDEX IF NOT EXISTS idx_mapping_rows_source_composite ON mapping_rows(source_malcode, source_table, source_column);
CREATE INDEX IF NOT EXISTS idx_mapping_rows_target_composite ON mapping_rows(target_malcode, target_table, target_column);
`
