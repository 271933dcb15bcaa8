package routes

import (
	"github.com/gin-gonic/gin"

	"datamap-backend/internal/handlers"
)

type DDLRoutes struct {
	handler *handlers.DDLHandler
}

func NewDDLRoutes(handler *handlers.DDLHandler) *DDLRoutes {
	return &DDLRoutes{handler: handler}
}

func (r *DDLRoutes) RegisterRoutes(router *gin.RouterGroup) {
	ddl := router.Group("/ddl")
	{
		ddl.POST("/create-tables", r.handler.CreateTables)
		ddl.POST("/drop-tables", r.handler.DropTables)
		ddl.GET("/verify-tables", r.handler.VerifyTables)
		ddl.POST("/execute-sql", r.handler.ExecuteSQL)
		ddl.GET("/health", r.handler.Health)
	}
}
