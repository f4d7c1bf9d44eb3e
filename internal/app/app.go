package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/db"
	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/middleware"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := LoadConfig("", log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	sqlite, err := db.NewSqliteService(cfg.SqlitePath, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init sqlite: %w", err)
	}
	if err := sqlite.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("sqlite automigrate: %w", err)
	}
	theDB := sqlite.DB()

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet)
	handlerset := wireHandlers(log, serviceset)
	gate := middleware.NewAccessGate(log, cfg.AccessKey)
	router := wireRouter(cfg, handlerset, gate)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(a.Cfg.ListenAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
