package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"datamap-backend/internal/config"
	"datamap-backend/internal/handlers"
	"datamap-backend/internal/routes"
	"datamap-backend/internal/services"
)

// newUnconfiguredRouter builds the full route tree with no database and no
// Azure OpenAI credentials, the degraded mode the server runs in when the
// environment is empty.
func newUnconfiguredRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	sandbox := services.NewSQLSandbox()
	openaiService := services.NewOpenAIService(config.OpenAIConfig{}, sandbox)
	mappingService := services.NewMappingService(nil)
	metadataService := services.NewMetadataService(nil)
	ddlService := services.NewDDLService(nil, nil)

	router := gin.New()
	routes.RegisterRoutes(router,
		handlers.NewHealthHandler(nil, openaiService),
		handlers.NewMappingHandler(mappingService),
		handlers.NewMetadataHandler(metadataService),
		handlers.NewOpenAIHandler(openaiService),
		handlers.NewDDLHandler(ddlService),
	)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var parsed map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("response is not JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return rec.Code, parsed
}

func TestHealthWithNothingConfigured(t *testing.T) {
	router := newUnconfiguredRouter()

	code, body := doRequest(t, router, http.MethodGet, "/health", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", body["status"])
	}
	if body["service"] != "Data Mapping Backend API" {
		t.Errorf("service field = %v", body["service"])
	}
	if body["database"] != "disconnected" {
		t.Errorf("database field = %v, want disconnected", body["database"])
	}
	if body["openai"] != "not configured" {
		t.Errorf("openai field = %v, want not configured", body["openai"])
	}
}

func TestDataEndpointsReportUnavailableWithoutDatabase(t *testing.T) {
	router := newUnconfiguredRouter()

	for _, tc := range []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/mapping-files", ""},
		{http.MethodGet, "/api/metadata/malcodes", ""},
		{http.MethodGet, "/api/metadata/search?term=customer", ""},
		{http.MethodGet, "/api/ddl/health", ""},
		{http.MethodPost, "/api/ddl/create-tables", ""},
	} {
		code, body := doRequest(t, router, tc.method, tc.path, tc.body)
		if code != http.StatusServiceUnavailable {
			t.Errorf("%s %s: status = %d, want 503", tc.method, tc.path, code)
		}
		if body["status"] != "error" {
			t.Errorf("%s %s: status field = %v, want error", tc.method, tc.path, body["status"])
		}
	}
}

func TestOpenAIEndpointsReportUnavailableWithoutCredentials(t *testing.T) {
	router := newUnconfiguredRouter()

	mappingInfo := `{"mappingInfo": {"name": "m", "rows": []}}`

	code, _ := doRequest(t, router, http.MethodPost, "/api/openai/generate-sql", mappingInfo)
	if code != http.StatusServiceUnavailable {
		t.Errorf("generate-sql: status = %d, want 503", code)
	}

	code, _ = doRequest(t, router, http.MethodPost, "/api/openai/process-complete", mappingInfo)
	if code != http.StatusServiceUnavailable {
		t.Errorf("process-complete: status = %d, want 503", code)
	}
}

func TestMalformedPayloadsAreRejected(t *testing.T) {
	router := newUnconfiguredRouter()

	for _, tc := range []struct {
		method, path, body string
	}{
		{http.MethodPost, "/api/openai/generate-sql", `{}`},
		{http.MethodPost, "/api/openai/generate-test-data", `{"mappingInfo": {"name": "m", "rows": []}}`},
		{http.MethodPost, "/api/openai/validate-sql", `{}`},
		{http.MethodPost, "/api/mapping-files", `{"name": "f"}`},
		{http.MethodPut, "/api/mapping-rows/abc/status", `{}`},
		{http.MethodPost, "/api/mapping-rows/abc/comments", `{}`},
		{http.MethodPost, "/api/ddl/execute-sql", `{}`},
	} {
		code, body := doRequest(t, router, tc.method, tc.path, tc.body)
		if code != http.StatusBadRequest {
			t.Errorf("%s %s: status = %d, want 400", tc.method, tc.path, code)
		}
		if body["status"] != "error" {
			t.Errorf("%s %s: status field = %v, want error", tc.method, tc.path, body["status"])
		}
	}
}

func TestSearchRequiresTerm(t *testing.T) {
	router := newUnconfiguredRouter()

	code, body := doRequest(t, router, http.MethodGet, "/api/metadata/search", "")
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "term") {
		t.Errorf("message = %v, should mention the term parameter", body["message"])
	}
}
