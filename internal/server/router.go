package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sdshc/tracker-backend/internal/handlers"
	"github.com/sdshc/tracker-backend/internal/middleware"
)

type RouterConfig struct {
	ImportHandler   *handlers.ImportHandler
	ExportHandler   *handlers.ExportHandler
	ProducerHandler *handlers.ProducerHandler
	AccessGate      *middleware.AccessGate
	AllowOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Access-Key", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AccessGate.Require())
	{
		api.POST("/import/spreadsheet", cfg.ImportHandler.ImportSpreadsheet)
		api.POST("/import/backup", cfg.ImportHandler.ImportBackup)
		api.GET("/imports", cfg.ImportHandler.History)
		api.GET("/export/backup", cfg.ExportHandler.Backup)
		api.GET("/export/spreadsheet", cfg.ExportHandler.Spreadsheet)
		api.GET("/producers", cfg.ProducerHandler.List)
		api.GET("/producers/:id", cfg.ProducerHandler.Get)
	}

	return router
}
