package routes

import (
	"github.com/gin-gonic/gin"

	"datamap-backend/internal/handlers"
)

type MappingRoutes struct {
	handler *handlers.MappingHandler
}

func NewMappingRoutes(handler *handlers.MappingHandler) *MappingRoutes {
	return &MappingRoutes{handler: handler}
}

func (r *MappingRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/mapping-files", r.handler.CreateMappingFile)
	router.GET("/mapping-files", r.handler.GetMappingFiles)

	rows := router.Group("/mapping-rows/:rowId")
	{
		rows.PUT("/status", r.handler.UpdateRowStatus)
		rows.POST("/comments", r.handler.AddRowComment)
	}
}
