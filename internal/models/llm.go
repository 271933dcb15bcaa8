package models

// MappingInfo is the mapping summary shipped to the LLM for SQL synthesis.
type MappingInfo struct {
	Name string           `json:"name" binding:"required"`
	Rows []MappingInfoRow `json:"rows" binding:"required"`
}

type MappingInfoRow struct {
	SourceColumn   ColumnPath `json:"sourceColumn"`
	TargetColumn   ColumnPath `json:"targetColumn"`
	DataType       string     `json:"dataType"`
	Transformation *string    `json:"transformation"`
}

// ColumnPath is a fully qualified malcode.table.column reference.
type ColumnPath struct {
	Malcode string `json:"malcode"`
	Table   string `json:"table"`
	Column  string `json:"column"`
}

// ValidationResults combines the sandbox execution pass and the LLM critique.
type ValidationResults struct {
	IsValid         bool             `json:"isValid"`
	Message         string           `json:"message"`
	ExecutedResults []map[string]any `json:"executedResults,omitempty"`
	Errors          []string         `json:"errors"`
	Suggestions     []string         `json:"suggestions"`
}

type GenerateSQLRequest struct {
	MappingInfo MappingInfo `json:"mappingInfo" binding:"required"`
}

type GenerateTestDataRequest struct {
	MappingInfo MappingInfo `json:"mappingInfo" binding:"required"`
	SQLQuery    string      `json:"sqlQuery" binding:"required"`
}

type ValidateSQLRequest struct {
	SQLQuery string           `json:"sqlQuery" binding:"required"`
	TestData []map[string]any `json:"testData"`
}

type ProcessCompleteRequest struct {
	MappingInfo MappingInfo `json:"mappingInfo" binding:"required"`
}

// ProcessCompleteResponse is the chained generate -> test data -> validate result.
type ProcessCompleteResponse struct {
	SQLQuery          string            `json:"sqlQuery"`
	TestData          []map[string]any  `json:"testData"`
	ValidationResults ValidationResults `json:"validationResults"`
}
