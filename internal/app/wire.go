package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/handlers"
	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/middleware"
	"github.com/sdshc/tracker-backend/internal/repos"
	"github.com/sdshc/tracker-backend/internal/server"
	"github.com/sdshc/tracker-backend/internal/services"
)

type Repos struct {
	Project      repos.ProjectRepo
	Producer     repos.ProducerRepo
	Contract     repos.ContractRepo
	BMP          repos.BMPRepo
	Practice     repos.PracticeRepo
	Bill         repos.BillRepo
	Fund         repos.FundRepo
	NPS          repos.NPSReductionRepo
	NPSCombined  repos.NPSReductionCombinedRepo
	ImportRecord repos.ImportRecordRepo
}

type Services struct {
	Import   services.ImportService
	Backup   services.BackupService
	Export   services.ExportService
	Producer services.ProducerService
}

type Handlers struct {
	Import   *handlers.ImportHandler
	Export   *handlers.ExportHandler
	Producer *handlers.ProducerHandler
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Project:      repos.NewProjectRepo(db, log),
		Producer:     repos.NewProducerRepo(db, log),
		Contract:     repos.NewContractRepo(db, log),
		BMP:          repos.NewBMPRepo(db, log),
		Practice:     repos.NewPracticeRepo(db, log),
		Bill:         repos.NewBillRepo(db, log),
		Fund:         repos.NewFundRepo(db, log),
		NPS:          repos.NewNPSReductionRepo(db, log),
		NPSCombined:  repos.NewNPSReductionCombinedRepo(db, log),
		ImportRecord: repos.NewImportRecordRepo(db, log),
	}
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	importCfg := services.ImportConfig{
		SourceLabel:  cfg.SourceLabel,
		ProjectName:  cfg.ProjectName,
		Sponsor:      cfg.Sponsor,
		DefaultState: cfg.DefaultState,
	}
	return Services{
		Import: services.NewImportService(
			db, log, importCfg,
			r.Project, r.Producer, r.Contract, r.BMP, r.Practice,
			r.Bill, r.Fund, r.NPS, r.NPSCombined, r.ImportRecord,
		),
		Backup:   services.NewBackupService(db, log),
		Export:   services.NewExportService(db, log, r.Producer, r.Contract, r.BMP, r.Practice, r.Bill, r.Fund),
		Producer: services.NewProducerService(db, log, r.Producer, r.Contract, r.BMP, r.Practice),
	}
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	return Handlers{
		Import:   handlers.NewImportHandler(log, s.Import, s.Backup),
		Export:   handlers.NewExportHandler(log, s.Backup, s.Export),
		Producer: handlers.NewProducerHandler(log, s.Producer),
	}
}

func wireRouter(cfg Config, h Handlers, gate *middleware.AccessGate) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ImportHandler:   h.Import,
		ExportHandler:   h.Export,
		ProducerHandler: h.Producer,
		AccessGate:      gate,
		AllowOrigins:    cfg.AllowOrigins,
	})
}
