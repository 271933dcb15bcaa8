package routes

import (
	"github.com/gin-gonic/gin"

	"datamap-backend/internal/handlers"
)

type MetadataRoutes struct {
	handler *handlers.MetadataHandler
}

func NewMetadataRoutes(handler *handlers.MetadataHandler) *MetadataRoutes {
	return &MetadataRoutes{handler: handler}
}

func (r *MetadataRoutes) RegisterRoutes(router *gin.RouterGroup) {
	metadata := router.Group("/metadata")
	{
		metadata.GET("/search", r.handler.Search)
		metadata.GET("/malcodes", r.handler.GetMalcodes)
		metadata.GET("/malcodes/:malcode", r.handler.GetMalcodeByName)
		metadata.GET("/tables", r.handler.GetTables)
		metadata.GET("/columns", r.handler.GetColumns)
		metadata.POST("/malcodes", r.handler.CreateMalcode)
		metadata.POST("/tables", r.handler.CreateTable)
		metadata.POST("/columns", r.handler.CreateColumn)
		metadata.PUT("/descriptions", r.handler.UpdateDescriptions)
	}
}
