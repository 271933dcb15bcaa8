package routes

import (
	"github.com/gin-gonic/gin"

	"datamap-backend/internal/handlers"
)

func RegisterRoutes(
	router *gin.Engine,
	healthHandler *handlers.HealthHandler,
	mappingHandler *handlers.MappingHandler,
	metadataHandler *handlers.MetadataHandler,
	openaiHandler *handlers.OpenAIHandler,
	ddlHandler *handlers.DDLHandler,
) {
	router.GET("/health", healthHandler.Check)

	api := router.Group("/api")

	mappingRoutes := NewMappingRoutes(mappingHandler)
	mappingRoutes.RegisterRoutes(api)

	metadataRoutes := NewMetadataRoutes(metadataHandler)
	metadataRoutes.RegisterRoutes(api)

	openaiRoutes := NewOpenAIRoutes(openaiHandler)
	openaiRoutes.RegisterRoutes(api)

	ddlRoutes := NewDDLRoutes(ddlHandler)
	ddlRoutes.RegisterRoutes(api)
}
