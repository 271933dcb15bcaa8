package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"datamap-backend/internal/models"
	"datamap-backend/internal/responses"
	"datamap-backend/internal/services"
)

type MetadataHandler struct {
	metadataService *services.MetadataService
}

func NewMetadataHandler(metadataService *services.MetadataService) *MetadataHandler {
	return &MetadataHandler{metadataService: metadataService}
}

// Search handles GET /api/metadata/search?term=
func (h *MetadataHandler) Search(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		responses.Fail(c, http.StatusBadRequest, nil, "Query parameter 'term' is required")
		return
	}

	results, err := h.metadataService.Search(c.Request.Context(), term)
	if err != nil {
		log.Printf("Failed to search metadata: %v", err)
		responses.FailError(c, err, "Failed to search metadata")
		return
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	log.Printf("Found %d metadata search results for term: %s", len(results), term)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetMalcodes handles GET /api/metadata/malcodes
func (h *MetadataHandler) GetMalcodes(c *gin.Context) {
	malcodes, err := h.metadataService.ListMalcodes(c.Request.Context())
	if err != nil {
		log.Printf("Failed to get malcodes: %v", err)
		responses.FailError(c, err, "Failed to get malcodes")
		return
	}
	if malcodes == nil {
		malcodes = []models.MalcodeInfo{}
	}

	c.JSON(http.StatusOK, gin.H{"malcodes": malcodes})
}

// GetMalcodeByName handles GET /api/metadata/malcodes/:malcode
func (h *MetadataHandler) GetMalcodeByName(c *gin.Context) {
	malcode, err := h.metadataService.GetMalcode(c.Request.Context(), c.Param("malcode"))
	if err != nil {
		responses.FailError(c, err, "Failed to get malcode")
		return
	}

	c.JSON(http.StatusOK, malcode)
}

// GetTables handles GET /api/metadata/tables?malcode_id=&table_name=
func (h *MetadataHandler) GetTables(c *gin.Context) {
	malcodeID := c.Query("malcode_id")
	tableName := c.Query("table_name")

	tables := []models.TableInfo{}
	if malcodeID != "" && tableName == "" {
		var err error
		tables, err = h.metadataService.ListTablesByMalcodeID(c.Request.Context(), malcodeID)
		if err != nil {
			log.Printf("Failed to get tables: %v", err)
			responses.FailError(c, err, "Failed to get tables")
			return
		}
		if tables == nil {
			tables = []models.TableInfo{}
		}
	}

	c.JSON(http.StatusOK, gin.H{"tables": tables})
}

// GetColumns handles GET /api/metadata/columns?table_id=
func (h *MetadataHandler) GetColumns(c *gin.Context) {
	tableID := c.Query("table_id")

	columns := []models.ColumnInfo{}
	if tableID != "" {
		var err error
		columns, err = h.metadataService.ListColumnsByTableID(c.Request.Context(), tableID)
		if err != nil {
			log.Printf("Failed to get columns: %v", err)
			responses.FailError(c, err, "Failed to get columns")
			return
		}
		if columns == nil {
			columns = []models.ColumnInfo{}
		}
	}

	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// CreateMalcode handles POST /api/metadata/malcodes
func (h *MetadataHandler) CreateMalcode(c *gin.Context) {
	var req models.CreateMalcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid malcode payload")
		return
	}

	id, err := h.metadataService.CreateMalcode(c.Request.Context(), &req)
	if err != nil {
		log.Printf("Failed to create malcode metadata: %v", err)
		responses.FailError(c, err, "Failed to create malcode")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Malcode created successfully"})
}

// CreateTable handles POST /api/metadata/tables
func (h *MetadataHandler) CreateTable(c *gin.Context) {
	var req models.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid table payload")
		return
	}

	id, err := h.metadataService.CreateTable(c.Request.Context(), &req)
	if err != nil {
		log.Printf("Failed to create table metadata: %v", err)
		responses.FailError(c, err, "Failed to create table")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Table created successfully"})
}

// CreateColumn handles POST /api/metadata/columns
func (h *MetadataHandler) CreateColumn(c *gin.Context) {
	var req models.CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid column payload")
		return
	}

	id, err := h.metadataService.CreateColumn(c.Request.Context(), &req)
	if err != nil {
		log.Printf("Failed to create column metadata: %v", err)
		responses.FailError(c, err, "Failed to create column")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Column created successfully"})
}

// UpdateDescriptions handles PUT /api/metadata/descriptions, the explicit
// path for correcting curated descriptions (mapping saves never touch them).
func (h *MetadataHandler) UpdateDescriptions(c *gin.Context) {
	var req models.UpdateDescriptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid descriptions payload")
		return
	}

	if err := h.metadataService.UpdateDescriptions(c.Request.Context(), &req); err != nil {
		log.Printf("Failed to update descriptions: %v", err)
		responses.FailError(c, err, "Failed to update descriptions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Descriptions updated successfully"})
}
