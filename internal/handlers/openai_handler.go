package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"datamap-backend/internal/models"
	"datamap-backend/internal/responses"
	"datamap-backend/internal/services"
)

type OpenAIHandler struct {
	openaiService *services.OpenAIService
}

func NewOpenAIHandler(openaiService *services.OpenAIService) *OpenAIHandler {
	return &OpenAIHandler{openaiService: openaiService}
}

// GenerateSQL handles POST /api/openai/generate-sql
func (h *OpenAIHandler) GenerateSQL(c *gin.Context) {
	var req models.GenerateSQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request: mappingInfo is required")
		return
	}

	sqlQuery, err := h.openaiService.GenerateSQL(c.Request.Context(), &req.MappingInfo)
	if err != nil {
		log.Printf("SQL generation failed: %v", err)
		responses.FailError(c, err, "SQL generation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sqlQuery": sqlQuery})
}

// GenerateTestData handles POST /api/openai/generate-test-data
func (h *OpenAIHandler) GenerateTestData(c *gin.Context) {
	var req models.GenerateTestDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request: mappingInfo and sqlQuery are required")
		return
	}

	testData, err := h.openaiService.GenerateTestData(c.Request.Context(), &req.MappingInfo, req.SQLQuery)
	if err != nil {
		log.Printf("Test data generation failed: %v", err)
		responses.FailError(c, err, "Test data generation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"testData": testData})
}

// ValidateSQL handles POST /api/openai/validate-sql
func (h *OpenAIHandler) ValidateSQL(c *gin.Context) {
	var req models.ValidateSQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request: sqlQuery is required")
		return
	}

	validation, err := h.openaiService.ValidateSQL(c.Request.Context(), req.SQLQuery, req.TestData)
	if err != nil {
		log.Printf("SQL validation failed: %v", err)
		responses.FailError(c, err, "SQL validation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"validationResults": validation})
}

// ProcessComplete handles POST /api/openai/process-complete, chaining SQL
// generation, test data creation, and validation.
func (h *OpenAIHandler) ProcessComplete(c *gin.Context) {
	var req models.ProcessCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request: mappingInfo is required")
		return
	}

	result, err := h.openaiService.ProcessComplete(c.Request.Context(), &req.MappingInfo)
	if err != nil {
		log.Printf("Complete OpenAI processing failed: %v", err)
		responses.FailError(c, err, "Complete OpenAI processing failed")
		return
	}

	c.JSON(http.StatusOK, result)
}
