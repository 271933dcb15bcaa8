package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"datamap-backend/internal/responses"
	"datamap-backend/internal/services"
)

type DDLHandler struct {
	ddlService *services.DDLService
}

func NewDDLHandler(ddlService *services.DDLService) *DDLHandler {
	return &DDLHandler{ddlService: ddlService}
}

type customSQLRequest struct {
	SQLScript string `json:"sql_script" binding:"required"`
}

// CreateTables handles POST /api/ddl/create-tables
func (h *DDLHandler) CreateTables(c *gin.Context) {
	log.Println("Starting table creation process")

	results, err := h.ddlService.CreateTables(c.Request.Context())
	if err != nil {
		log.Printf("Failed to create tables: %v", err)
		responses.FailError(c, err, "Failed to create tables")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tables created successfully",
		"results": results,
	})
}

// DropTables handles POST /api/ddl/drop-tables
func (h *DDLHandler) DropTables(c *gin.Context) {
	log.Println("Starting table drop process")

	results, err := h.ddlService.DropTables(c.Request.Context())
	if err != nil {
		log.Printf("Failed to drop tables: %v", err)
		responses.FailError(c, err, "Failed to drop tables")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tables dropped successfully",
		"results": results,
	})
}

// VerifyTables handles GET /api/ddl/verify-tables
func (h *DDLHandler) VerifyTables(c *gin.Context) {
	results, err := h.ddlService.VerifyTables(c.Request.Context())
	if err != nil {
		log.Printf("Failed to verify tables: %v", err)
		responses.FailError(c, err, "Failed to verify tables")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Table verification completed",
		"results": results,
	})
}

// ExecuteSQL handles POST /api/ddl/execute-sql
func (h *DDLHandler) ExecuteSQL(c *gin.Context) {
	var req customSQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request: sql_script is required")
		return
	}

	log.Printf("Executing custom SQL script (length: %d characters)", len(req.SQLScript))

	results, err := h.ddlService.ExecuteCustomSQL(c.Request.Context(), req.SQLScript)
	if err != nil {
		log.Printf("Failed to execute SQL script: %v", err)
		responses.FailError(c, err, "Failed to execute SQL script")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "SQL script executed successfully",
		"results": results,
	})
}

// Health handles GET /api/ddl/health
func (h *DDLHandler) Health(c *gin.Context) {
	if err := h.ddlService.Ping(c.Request.Context()); err != nil {
		log.Printf("DDL health check failed: %v", err)
		responses.FailError(c, err, "DDL operations unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "DDL operations available"})
}
