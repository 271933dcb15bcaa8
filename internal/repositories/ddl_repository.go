package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DDLRepository provisions and inspects the application schema. These are
// administrative operations invoked through the /api/ddl endpoints.
type DDLRepository struct {
	pool *pgxpool.Pool
}

func NewDDLRepository(pool *pgxpool.Pool) *DDLRepository {
	return &DDLRepository{pool: pool}
}

var managedTables = []string{"metadata_catalog", "mapping_files", "mapping_rows"}

const dropTablesScript = `
DROP TABLE IF EXISTS mapping_rows CASCADE;
DROP TABLE IF EXISTS mapping_files CASCADE;
DROP TABLE IF EXISTS metadata_catalog CASCADE
`

// DropTables removes the application tables.
func (r *DDLRepository) DropTables(ctx context.Context) ([]map[string]any, error) {
	return r.ExecuteScript(ctx, dropTablesScript)
}

// VerifyTables reports existence and row count for each managed table.
func (r *DDLRepository) VerifyTables(ctx context.Context) ([]map[string]any, error) {
	var results []map[string]any

	for _, table := range managedTables {
		var exists bool
		err := r.pool.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)
		`, table).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to verify table %s: %w", table, err)
		}

		entry := map[string]any{"table": table, "exists": exists}
		if exists {
			var count int64
			// identifier comes from the fixed managedTables list, not user input
			if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
				return nil, fmt.Errorf("failed to count rows in %s: %w", table, err)
			}
			entry["row_count"] = count
		}
		results = append(results, entry)
	}

	return results, nil
}

// ExecuteScript runs a multi-statement SQL script inside one transaction and
// captures per-statement results: result sets for SELECTs, a confirmation
// message for everything else.
func (r *DDLRepository) ExecuteScript(ctx context.Context, script string) ([]map[string]any, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var results []map[string]any

	for _, statement := range splitStatements(script) {
		normalized := strings.ToUpper(statement)
		if strings.HasPrefix(normalized, "SELECT") {
			rows, err := tx.Query(ctx, statement)
			if err != nil {
				return nil, fmt.Errorf("error executing SQL script: %w", err)
			}

			var columns []string
			for _, fd := range rows.FieldDescriptions() {
				columns = append(columns, string(fd.Name))
			}

			var resultRows [][]any
			for rows.Next() {
				values, err := rows.Values()
				if err != nil {
					rows.Close()
					return nil, fmt.Errorf("error executing SQL script: %w", err)
				}
				for i, v := range values {
					if t, ok := v.(time.Time); ok {
						values[i] = t.Format(time.RFC3339)
					}
				}
				resultRows = append(resultRows, values)
			}
			rows.Close()
			if err := rows.Err(); err != nil {
				return nil, fmt.Errorf("error executing SQL script: %w", err)
			}

			results = append(results, map[string]any{
				"type":    "select",
				"columns": columns,
				"rows":    resultRows,
			})
			continue
		}

		if _, err := tx.Exec(ctx, statement); err != nil {
			return nil, fmt.Errorf("error executing SQL script: %w", err)
		}
		results = append(results, map[string]any{
			"type":    "execute",
			"message": fmt.Sprintf("Statement executed successfully: %s", truncate(statement, 50)),
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error executing SQL script: %w", err)
	}

	return results, nil
}

// Ping checks that DDL operations are available.
func (r *DDLRepository) Ping(ctx context.Context) error {
	var one int
	return r.pool.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func splitStatements(script string) []string {
	var statements []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
