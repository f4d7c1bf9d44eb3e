package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/services"
)

type ExportHandler struct {
	log           *logger.Logger
	backupService services.BackupService
	exportService services.ExportService
}

func NewExportHandler(log *logger.Logger, bsvc services.BackupService, esvc services.ExportService) *ExportHandler {
	return &ExportHandler{
		log:           log.With("handler", "ExportHandler"),
		backupService: bsvc,
		exportService: esvc,
	}
}

// GET /api/export/backup
func (h *ExportHandler) Backup(c *gin.Context) {
	data, err := h.backupService.Export(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}
	filename := fmt.Sprintf("tracker-backup_%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// GET /api/export/spreadsheet
func (h *ExportHandler) Spreadsheet(c *gin.Context) {
	data, err := h.exportService.Spreadsheet(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}
	filename := fmt.Sprintf("tracker-export_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
