package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"datamap-backend/internal/models"
	"datamap-backend/internal/responses"
	"datamap-backend/internal/services"
)

type MappingHandler struct {
	mappingService *services.MappingService
}

func NewMappingHandler(mappingService *services.MappingService) *MappingHandler {
	return &MappingHandler{mappingService: mappingService}
}

// CreateMappingFile handles POST /api/mapping-files. Saving an existing name
// replaces the file's entire row set.
func (h *MappingHandler) CreateMappingFile(c *gin.Context) {
	var req models.MappingFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid mapping file payload")
		return
	}

	fileID, err := h.mappingService.SaveFile(c.Request.Context(), &req)
	if err != nil {
		log.Printf("Failed to save mapping file: %v", err)
		responses.FailError(c, err, "Failed to save mapping file")
		return
	}

	log.Printf("Mapping file saved successfully: %s", req.Name)
	c.JSON(http.StatusOK, gin.H{
		"id":      fileID,
		"message": "Mapping file saved successfully",
	})
}

// GetMappingFiles handles GET /api/mapping-files
func (h *MappingHandler) GetMappingFiles(c *gin.Context) {
	files, err := h.mappingService.LoadAll(c.Request.Context())
	if err != nil {
		log.Printf("Failed to load mapping files: %v", err)
		responses.FailError(c, err, "Failed to load mapping files")
		return
	}
	if files == nil {
		files = []models.MappingFile{}
	}

	log.Printf("Loaded %d mapping files", len(files))
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// UpdateRowStatus handles PUT /api/mapping-rows/:rowId/status
func (h *MappingHandler) UpdateRowStatus(c *gin.Context) {
	rowID := c.Param("rowId")

	var req models.UpdateRowStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid status payload: status is required")
		return
	}

	if err := h.mappingService.UpdateRowStatus(c.Request.Context(), rowID, &req); err != nil {
		log.Printf("Failed to update row status: %v", err)
		responses.FailError(c, err, "Failed to update row status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

// AddRowComment handles POST /api/mapping-rows/:rowId/comments
func (h *MappingHandler) AddRowComment(c *gin.Context) {
	rowID := c.Param("rowId")

	var req models.AddRowCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid comment payload: comment is required")
		return
	}

	if err := h.mappingService.AddRowComment(c.Request.Context(), rowID, req.Comment); err != nil {
		log.Printf("Failed to add comment: %v", err)
		responses.FailError(c, err, "Failed to add comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment added successfully"})
}
