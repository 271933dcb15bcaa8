package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"datamap-backend/internal/config"
	"datamap-backend/internal/database"
	"datamap-backend/internal/handlers"
	"datamap-backend/internal/repositories"
	"datamap-backend/internal/routes"
	"datamap-backend/internal/services"
)

// NewServer wires the whole service. A missing database configuration leaves
// the pool nil and only disables the data endpoints; a missing OpenAI
// configuration only disables the /api/openai endpoints. The returned cleanup
// closes the pool.
func NewServer(cfg config.Config) (*http.Server, func()) {
	var pool *pgxpool.Pool
	if cfg.Database.Configured() {
		var err error
		pool, err = database.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := database.RunMigrations(pool); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	} else {
		log.Println("Database configuration is missing. Data endpoints will report a configuration error.")
	}

	// Dependency injection
	var metadataRepo *repositories.MetadataRepository
	var mappingRepo *repositories.MappingRepository
	var ddlRepo *repositories.DDLRepository
	if pool != nil {
		metadataRepo = repositories.NewMetadataRepository(pool)
		mappingRepo = repositories.NewMappingRepository(pool, metadataRepo)
		ddlRepo = repositories.NewDDLRepository(pool)
	}

	sandbox := services.NewSQLSandbox()
	metadataService := services.NewMetadataService(metadataRepo)
	mappingService := services.NewMappingService(mappingRepo)
	openaiService := services.NewOpenAIService(cfg.OpenAI, sandbox)
	ddlService := services.NewDDLService(ddlRepo, pool)

	healthHandler := handlers.NewHealthHandler(pool, openaiService)
	mappingHandler := handlers.NewMappingHandler(mappingService)
	metadataHandler := handlers.NewMetadataHandler(metadataService)
	openaiHandler := handlers.NewOpenAIHandler(openaiService)
	ddlHandler := handlers.NewDDLHandler(ddlService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.RegisterRoutes(router, healthHandler, mappingHandler, metadataHandler, openaiHandler, ddlHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	cleanup := func() {
		if pool != nil {
			pool.Close()
			log.Println("Database connection pool closed")
		}
	}

	return srv, cleanup
}
