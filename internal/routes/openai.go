package routes

import (
	"github.com/gin-gonic/gin"

	"datamap-backend/internal/handlers"
)

type OpenAIRoutes struct {
	handler *handlers.OpenAIHandler
}

func NewOpenAIRoutes(handler *handlers.OpenAIHandler) *OpenAIRoutes {
	return &OpenAIRoutes{handler: handler}
}

func (r *OpenAIRoutes) RegisterRoutes(router *gin.RouterGroup) {
	openai := router.Group("/openai")
	{
		openai.POST("/generate-sql", r.handler.GenerateSQL)
		openai.POST("/generate-test-data", r.handler.GenerateTestData)
		openai.POST("/validate-sql", r.handler.ValidateSQL)
		openai.POST("/process-complete", r.handler.ProcessComplete)
	}
}
