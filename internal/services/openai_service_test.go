package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"datamap-backend/internal/config"
	"datamap-backend/internal/errs"
	"datamap-backend/internal/models"
)

func sampleMappingInfo() *models.MappingInfo {
	transform := "UPPER(value)"
	return &models.MappingInfo{
		Name: "customer_mapping",
		Rows: []models.MappingInfoRow{
			{
				SourceColumn:   models.ColumnPath{Malcode: "SRC", Table: "customers", Column: "cust_name"},
				TargetColumn:   models.ColumnPath{Malcode: "TGT", Table: "dim_customer", Column: "customer_name"},
				DataType:       "varchar",
				Transformation: &transform,
			},
			{
				SourceColumn: models.ColumnPath{Malcode: "SRC", Table: "customers", Column: "cust_id"},
				TargetColumn: models.ColumnPath{Malcode: "TGT", Table: "dim_customer", Column: "customer_id"},
			},
		},
	}
}

func TestUnconfiguredServiceFailsFast(t *testing.T) {
	svc := NewOpenAIService(config.OpenAIConfig{}, NewSQLSandbox())

	if svc.Configured() {
		t.Fatal("service without endpoint and key should not report configured")
	}

	_, err := svc.GenerateSQL(context.Background(), sampleMappingInfo())
	if !errors.Is(err, errs.ErrNotConfigured) {
		t.Errorf("GenerateSQL error = %v, want ErrNotConfigured", err)
	}

	_, err = svc.GenerateTestData(context.Background(), sampleMappingInfo(), "SELECT 1")
	if !errors.Is(err, errs.ErrNotConfigured) {
		t.Errorf("GenerateTestData error = %v, want ErrNotConfigured", err)
	}

	_, err = svc.ValidateSQL(context.Background(), "SELECT id FROM test_data", []map[string]any{{"id": float64(1)}})
	if !errors.Is(err, errs.ErrNotConfigured) {
		t.Errorf("ValidateSQL error = %v, want ErrNotConfigured", err)
	}

	_, err = svc.ProcessComplete(context.Background(), sampleMappingInfo())
	if !errors.Is(err, errs.ErrNotConfigured) {
		t.Errorf("ProcessComplete error = %v, want ErrNotConfigured", err)
	}
}

func TestBuildSQLPrompt(t *testing.T) {
	system, user := buildSQLPrompt(sampleMappingInfo())

	if !strings.Contains(system, "expert SQL developer") {
		t.Error("system prompt should set the SQL developer role")
	}
	if !strings.Contains(user, "Mapping Name: customer_mapping") {
		t.Error("user prompt should include the mapping name")
	}
	if !strings.Contains(user, "Source: SRC.customers.cust_name -> Target: TGT.dim_customer.customer_name") {
		t.Error("user prompt should include the fully qualified mapping line")
	}
	if !strings.Contains(user, "(transformation: UPPER(value))") {
		t.Error("user prompt should include the transformation when present")
	}
	if strings.Contains(user, "customer_id (") {
		t.Error("rows without a transformation should not grow a transformation clause")
	}
}

func TestBuildTestDataPrompt(t *testing.T) {
	_, user := buildTestDataPrompt(sampleMappingInfo(), "SELECT 1")

	if !strings.Contains(user, "dim_customer.customer_name (varchar)") {
		t.Error("user prompt should list target columns with their data type")
	}
	if !strings.Contains(user, "dim_customer.customer_id (string)") {
		t.Error("a missing data type should default to string")
	}
	if !strings.Contains(user, "SELECT 1") {
		t.Error("user prompt should include the generated SQL")
	}
}

func TestBuildValidationPrompt(t *testing.T) {
	data := []map[string]any{
		{"id": float64(1)}, {"id": float64(2)}, {"id": float64(3)}, {"id": float64(4)},
	}

	_, user := buildValidationPrompt("SELECT * FROM test_data", data, nil)
	if !strings.Contains(user, "executed successfully") {
		t.Error("prompt should report a successful execution")
	}
	if strings.Contains(user, `"id": 4`) {
		t.Error("sample test data should be capped at three records")
	}

	_, user = buildValidationPrompt("SELECT * FROM test_data", nil, fmt.Errorf("no such table"))
	if !strings.Contains(user, "failed to execute") || !strings.Contains(user, "no such table") {
		t.Error("prompt should carry the execution error")
	}
	if !strings.Contains(user, "No test data provided") {
		t.Error("prompt should note absent test data")
	}
}

func TestParseTestDataResponse(t *testing.T) {
	records, err := parseTestDataResponse(`[{"id": 1, "name": "a"}, {"id": 2, "name": "b"}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 || records[0]["name"] != "a" {
		t.Errorf("records = %v", records)
	}

	fenced := "```json\n[{\"id\": 1}]\n```"
	records, err = parseTestDataResponse(fenced)
	if err != nil {
		t.Fatalf("fenced response should parse, got: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("fenced records = %v", records)
	}

	if _, err := parseTestDataResponse("Sure! Here is your data:"); err == nil {
		t.Error("prose should not parse as test data")
	}
	if _, err := parseTestDataResponse(`{"id": 1}`); err == nil {
		t.Error("a lone object should not parse as test data")
	}
}

func TestParseValidationResponse(t *testing.T) {
	verdict, ok := parseValidationResponse(`{"isValid": false, "message": "bad join", "errors": ["cartesian product"], "suggestions": ["add a join key"]}`)
	if !ok {
		t.Fatal("well-formed verdict should parse")
	}
	if verdict.IsValid {
		t.Error("IsValid should be false")
	}
	if verdict.Message != "bad join" || len(verdict.Errors) != 1 || len(verdict.Suggestions) != 1 {
		t.Errorf("verdict = %+v", verdict)
	}

	if _, ok := parseValidationResponse("The query looks fine to me."); ok {
		t.Error("prose should not parse as a verdict")
	}
	if _, ok := parseValidationResponse(`{"message": "no verdict field"}`); ok {
		t.Error("a verdict without isValid should not count")
	}

	fenced := "```json\n{\"isValid\": true}\n```"
	verdict, ok = parseValidationResponse(fenced)
	if !ok || !verdict.IsValid {
		t.Error("fenced verdict should parse")
	}
}

func TestFallbackTestData(t *testing.T) {
	records := fallbackTestData()
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}
	if records[0]["id"] != 1 || records[0]["sample_column"] != "test_value_1" || records[0]["status"] != "valid" {
		t.Errorf("first record = %v", records[0])
	}
	if records[4]["sample_column"] != "test_value_5" {
		t.Errorf("last record = %v", records[4])
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"```sql\nSELECT 1\n```", "SELECT 1"},
		{"```\nSELECT 1\n```", "SELECT 1"},
		{"  ```json\n[1]\n```  ", "[1]"},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
