package models

import (
	"time"

	"github.com/google/uuid"
)

// System tags constraining where a mapped column lives.
const (
	SourceTypeSRZADLS      = "SRZ_ADLS"
	TargetTypeCZADLS       = "CZ_ADLS"
	TargetTypeSynapseTable = "SYNAPSE_TABLE"
)

// SourceColumn identifies the source side of a mapping row by catalog
// composite key plus its system tag.
type SourceColumn struct {
	ID         string            `json:"id,omitempty"`
	Malcode    string            `json:"malcode" binding:"required"`
	Table      string            `json:"table" binding:"required"`
	Column     string            `json:"column" binding:"required"`
	DataType   string            `json:"dataType"`
	SourceType string            `json:"sourceType"`
	Business   *BusinessMetadata `json:"businessMetadata,omitempty"`
}

// TargetColumn is the target side of a mapping row.
type TargetColumn struct {
	ID         string            `json:"id,omitempty"`
	Malcode    string            `json:"malcode" binding:"required"`
	Table      string            `json:"table" binding:"required"`
	Column     string            `json:"column" binding:"required"`
	DataType   string            `json:"dataType"`
	TargetType string            `json:"targetType"`
	Business   *BusinessMetadata `json:"businessMetadata,omitempty"`
}

// BusinessMetadata carries the descriptive text attached to a catalog entry.
type BusinessMetadata struct {
	MalcodeDescription *string `json:"malcodeDescription"`
	TableDescription   *string `json:"tableDescription"`
	ColumnDescription  *string `json:"columnDescription"`
}

// MappingRowRequest is one incoming source-to-target column mapping.
type MappingRowRequest struct {
	SourceColumn   SourceColumn `json:"sourceColumn" binding:"required"`
	TargetColumn   TargetColumn `json:"targetColumn" binding:"required"`
	Transformation *string      `json:"transformation"`
	Join           *string      `json:"join"`
	Status         string       `json:"status"`
	CreatedBy      string       `json:"createdBy"`
}

// MappingFileRequest is the save-mapping-file payload. Saving a name that
// already exists replaces the file's entire row set.
type MappingFileRequest struct {
	Name         string              `json:"name" binding:"required"`
	Description  *string             `json:"description"`
	SourceSystem string              `json:"sourceSystem" binding:"required"`
	TargetSystem string              `json:"targetSystem" binding:"required"`
	Status       string              `json:"status"`
	CreatedBy    string              `json:"createdBy" binding:"required"`
	Rows         []MappingRowRequest `json:"rows"`
}

// MappingRow is a persisted row materialized with full column details from
// the catalog.
type MappingRow struct {
	ID             uuid.UUID    `json:"id"`
	SourceColumn   SourceColumn `json:"sourceColumn"`
	TargetColumn   TargetColumn `json:"targetColumn"`
	Transformation *string      `json:"transformation"`
	Join           *string      `json:"join"`
	Status         string       `json:"status"`
	CreatedBy      string       `json:"createdBy"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
	Reviewer       *string      `json:"reviewer"`
	ReviewedAt     *time.Time   `json:"reviewedAt"`
	Comments       []string     `json:"comments"`
}

// MappingFile is a persisted mapping file with its rows embedded.
type MappingFile struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Description  *string      `json:"description"`
	SourceSystem string       `json:"sourceSystem"`
	TargetSystem string       `json:"targetSystem"`
	Status       string       `json:"status"`
	CreatedBy    string       `json:"createdBy"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	Rows         []MappingRow `json:"rows"`
}

type UpdateRowStatusRequest struct {
	Status   string  `json:"status" binding:"required"`
	Reviewer *string `json:"reviewer"`
}

type AddRowCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}
