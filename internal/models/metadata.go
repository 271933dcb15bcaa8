package models

import (
	"time"

	"github.com/google/uuid"
)

// Sentinel column names used for placeholder catalog rows. A malcode or table
// created without any real column is represented by one of these rows.
const (
	PlaceholderTable      = "_metadata"
	PlaceholderMalcodeCol = "_malcode_info"
	PlaceholderTableCol   = "_table_info"
)

// MetadataEntry is one row of the metadata catalog, identified by the
// composite key (malcode, table_name, column_name).
type MetadataEntry struct {
	ID                 uuid.UUID `json:"id"`
	Malcode            string    `json:"malcode"`
	TableName          string    `json:"table_name"`
	ColumnName         string    `json:"column_name"`
	MalcodeDescription *string   `json:"malcode_description,omitempty"`
	TableDescription   *string   `json:"table_description,omitempty"`
	ColumnDescription  *string   `json:"column_description,omitempty"`
	DataType           string    `json:"data_type"`
	IsPrimaryKey       bool      `json:"is_primary_key"`
	IsNullable         bool      `json:"is_nullable"`
	DefaultValue       *string   `json:"default_value,omitempty"`
	CreatedBy          string    `json:"created_by"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	IsActive           bool      `json:"is_active"`
}

// SearchResult is one hit of a metadata search.
type SearchResult struct {
	Malcode             string  `json:"malcode"`
	TableName           string  `json:"table_name"`
	ColumnName          string  `json:"column_name"`
	BusinessDescription *string `json:"business_description"`
	DataType            string  `json:"data_type"`
}

// MalcodeInfo is the aggregated view of one malcode across all catalog rows.
type MalcodeInfo struct {
	ID                  string    `json:"id"`
	Malcode             string    `json:"malcode"`
	BusinessDescription *string   `json:"business_description"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	IsActive            bool      `json:"is_active"`
}

// TableInfo is the aggregated view of one table under a malcode.
type TableInfo struct {
	ID                  string    `json:"id"`
	MalcodeID           string    `json:"malcode_id"`
	TableName           string    `json:"table_name"`
	BusinessDescription *string   `json:"business_description"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	IsActive            bool      `json:"is_active"`
}

// ColumnInfo is the full column-level view under a malcode and table.
type ColumnInfo struct {
	ID                  string    `json:"id"`
	TableID             string    `json:"table_id"`
	ColumnName          string    `json:"column_name"`
	BusinessDescription *string   `json:"business_description"`
	DataType            string    `json:"data_type"`
	IsPrimaryKey        bool      `json:"is_primary_key"`
	IsNullable          bool      `json:"is_nullable"`
	DefaultValue        *string   `json:"default_value,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	IsActive            bool      `json:"is_active"`
}

type CreateMalcodeRequest struct {
	Malcode     string  `json:"malcode" binding:"required"`
	Description *string `json:"description"`
	CreatedBy   string  `json:"created_by"`
}

type CreateTableRequest struct {
	Malcode     string  `json:"malcode" binding:"required"`
	TableName   string  `json:"table_name" binding:"required"`
	Description *string `json:"description"`
	CreatedBy   string  `json:"created_by"`
}

type CreateColumnRequest struct {
	Malcode      string  `json:"malcode" binding:"required"`
	TableName    string  `json:"table_name" binding:"required"`
	ColumnName   string  `json:"column_name" binding:"required"`
	DataType     string  `json:"data_type"`
	Description  *string `json:"description"`
	IsPrimaryKey bool    `json:"is_primary_key"`
	IsNullable   *bool   `json:"is_nullable"`
	DefaultValue *string `json:"default_value"`
	CreatedBy    string  `json:"created_by"`
}

// UpdateDescriptionsRequest is the explicit description-editing path. The
// mapping-save upsert never touches descriptions, so this is the only way to
// correct curated text after the fact.
type UpdateDescriptionsRequest struct {
	Malcode            string  `json:"malcode" binding:"required"`
	TableName          string  `json:"table_name"`
	ColumnName         string  `json:"column_name"`
	MalcodeDescription *string `json:"malcode_description"`
	TableDescription   *string `json:"table_description"`
	ColumnDescription  *string `json:"column_description"`
}
