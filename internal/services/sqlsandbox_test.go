package services

import (
	"strings"
	"testing"
)

func sampleTestData() []map[string]any {
	return []map[string]any{
		{"id": float64(1), "name": "alice", "amount": float64(100)},
		{"id": float64(2), "name": "bob", "amount": float64(250)},
		{"id": float64(3), "name": "carol", "amount": float64(75)},
	}
}

func TestSandboxExecuteSelect(t *testing.T) {
	sandbox := NewSQLSandbox()

	results, err := sandbox.Execute("SELECT name, amount FROM test_data ORDER BY name", sampleTestData())
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d rows, want 3", len(results))
	}
	if results[0]["name"] != "alice" {
		t.Errorf("first row name = %v, want alice", results[0]["name"])
	}
	// Sandbox columns are all text.
	if results[1]["amount"] != "250" {
		t.Errorf("second row amount = %v, want %q", results[1]["amount"], "250")
	}
}

func TestSandboxExecuteRewritesPlaceholders(t *testing.T) {
	sandbox := NewSQLSandbox()

	results, err := sandbox.Execute("SELECT id FROM source_table WHERE name = 'bob'", sampleTestData())
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d rows, want 1", len(results))
	}
	if results[0]["id"] != "2" {
		t.Errorf("id = %v, want %q", results[0]["id"], "2")
	}
}

func TestSandboxExecuteReportsQueryError(t *testing.T) {
	sandbox := NewSQLSandbox()

	_, err := sandbox.Execute("SELECT missing_column FROM test_data", sampleTestData())
	if err == nil {
		t.Fatal("expected an execution error for an unknown column")
	}
}

func TestSandboxExecuteRequiresTestData(t *testing.T) {
	sandbox := NewSQLSandbox()

	if _, err := sandbox.Execute("SELECT 1", nil); err == nil {
		t.Fatal("expected an error with no test data")
	}
	if _, err := sandbox.Execute("SELECT 1", []map[string]any{{}}); err == nil {
		t.Fatal("expected an error with an empty first record")
	}
}

func TestSandboxExecuteMultipleStatements(t *testing.T) {
	sandbox := NewSQLSandbox()

	script := "UPDATE test_data SET name = 'dave' WHERE id = '1'; SELECT name FROM test_data WHERE id = '1'"
	results, err := sandbox.Execute(script, sampleTestData())
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(results) != 1 || results[0]["name"] != "dave" {
		t.Errorf("results = %v, want the updated name", results)
	}
}

func TestSandboxNullAndStructuredValues(t *testing.T) {
	sandbox := NewSQLSandbox()

	data := []map[string]any{
		{"id": float64(1), "note": nil, "tags": []any{"a", "b"}},
	}
	results, err := sandbox.Execute("SELECT id, note, tags FROM test_data", data)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d rows, want 1", len(results))
	}
	if results[0]["note"] != nil {
		t.Errorf("note = %v, want NULL", results[0]["note"])
	}
	if results[0]["tags"] != `["a","b"]` {
		t.Errorf("tags = %v, want JSON-encoded text", results[0]["tags"])
	}
}

func TestSubstitutePlaceholders(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SELECT * FROM source_table", "SELECT * FROM test_data"},
		{"SELECT * FROM SOURCE_TABLE", "SELECT * FROM test_data"},
		{"SELECT * FROM dbo.staging_table", "SELECT * FROM test_data"},
		{"INSERT INTO target_table SELECT * FROM source_data", "INSERT INTO test_data SELECT * FROM test_data"},
		{"SELECT * FROM customers", "SELECT * FROM customers"},
		// A token inside a longer identifier is left alone.
		{"SELECT * FROM my_source_table_v2", "SELECT * FROM my_source_table_v2"},
	}

	for _, tc := range cases {
		if got := SubstitutePlaceholders(tc.in); got != tc.want {
			t.Errorf("SubstitutePlaceholders(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSplitSQLStatements(t *testing.T) {
	statements := splitSQLStatements("SELECT 1; ; \n SELECT 2 ;")
	if len(statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(statements))
	}
	if statements[0] != "SELECT 1" || statements[1] != "SELECT 2" {
		t.Errorf("statements = %v", statements)
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent(`weird"col`); got != `"weird""col"` {
		t.Errorf("quoteIdent = %s", got)
	}
	if !strings.HasPrefix(quoteIdent("plain"), `"`) {
		t.Error("identifiers should always be quoted")
	}
}
