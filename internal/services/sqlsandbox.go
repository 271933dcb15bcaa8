package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLSandbox executes candidate SQL against an ephemeral in-memory SQLite
// database seeded with generated test data. Every call builds a fresh store;
// nothing survives the call.
type SQLSandbox struct{}

func NewSQLSandbox() *SQLSandbox {
	return &SQLSandbox{}
}

const sandboxTable = "test_data"

// Placeholder table names that generated SQL tends to reference. Each one,
// optionally schema-qualified, is rewritten to the sandbox table.
var placeholderTokens = []string{
	"source_table",
	"target_table",
	"source_data",
	"staging_table",
	"your_table",
	"your_table_name",
}

// Execute materializes the test data into a single all-text table, rewrites
// placeholder table names in the query, and runs it. The execution error is a
// captured result, not a failure of the sandbox itself.
func (s *SQLSandbox) Execute(sqlText string, testData []map[string]any) ([]map[string]any, error) {
	if len(testData) == 0 {
		return nil, fmt.Errorf("no test data to execute against")
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open sandbox database: %w", err)
	}
	defer db.Close()

	columns := recordColumns(testData[0])
	if len(columns) == 0 {
		return nil, fmt.Errorf("test data records have no columns")
	}

	if err := createSandboxTable(db, columns); err != nil {
		return nil, err
	}
	if err := insertTestData(db, columns, testData); err != nil {
		return nil, err
	}

	rewritten := SubstitutePlaceholders(sqlText)

	var results []map[string]any
	for _, statement := range splitSQLStatements(rewritten) {
		if strings.HasPrefix(strings.ToUpper(statement), "SELECT") {
			rows, err := runSandboxSelect(db, statement)
			if err != nil {
				return nil, err
			}
			results = append(results, rows...)
		} else {
			if _, err := db.Exec(statement); err != nil {
				return nil, err
			}
		}
	}

	return results, nil
}

// SubstitutePlaceholders rewrites known placeholder table names, including
// schema-qualified forms, to the sandbox table.
func SubstitutePlaceholders(sqlText string) string {
	for _, token := range placeholderTokens {
		re := regexp.MustCompile(`(?i)\b(?:\w+\.)*` + regexp.QuoteMeta(token) + `\b`)
		sqlText = re.ReplaceAllString(sqlText, sandboxTable)
	}
	return sqlText
}

func recordColumns(record map[string]any) []string {
	columns := make([]string, 0, len(record))
	for col := range record {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

func createSandboxTable(db *sql.DB, columns []string) error {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col) + " TEXT"
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", sandboxTable, strings.Join(defs, ", "))
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to create sandbox table: %w", err)
	}
	return nil
}

func insertTestData(db *sql.DB, columns []string, testData []map[string]any) error {
	quoted := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
		params[i] = "?"
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		sandboxTable, strings.Join(quoted, ", "), strings.Join(params, ", "))

	stmt, err := db.Prepare(insert)
	if err != nil {
		return fmt.Errorf("failed to prepare sandbox insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range testData {
		args := make([]any, len(columns))
		for i, col := range columns {
			args[i] = valueAsText(record[col])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert test record: %w", err)
		}
	}

	return nil
}

// valueAsText flattens any JSON value to the sandbox's text typing.
func valueAsText(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return val
	case bool, float64, int, int64:
		return fmt.Sprintf("%v", val)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(encoded)
	}
}

func runSandboxSelect(db *sql.DB, statement string) ([]map[string]any, error) {
	rows, err := db.Query(statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				rowMap[col] = string(b)
			} else {
				rowMap[col] = values[i]
			}
		}
		results = append(results, rowMap)
	}

	return results, rows.Err()
}

func splitSQLStatements(script string) []string {
	var statements []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
