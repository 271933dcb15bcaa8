package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"datamap-backend/internal/services"
)

type HealthHandler struct {
	pool   *pgxpool.Pool
	openai *services.OpenAIService
}

func NewHealthHandler(pool *pgxpool.Pool, openai *services.OpenAIService) *HealthHandler {
	return &HealthHandler{pool: pool, openai: openai}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	dbStatus := "disconnected"
	if h.pool != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.pool.Ping(ctx); err != nil {
			log.Printf("Database health check failed: %v", err)
		} else {
			dbStatus = "connected"
		}
	}

	openaiStatus := "not configured"
	if h.openai.Configured() {
		openaiStatus = "configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  "Data Mapping Backend API",
		"database": dbStatus,
		"openai":   openaiStatus,
	})
}
