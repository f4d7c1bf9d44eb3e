package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/services"
)

type ImportHandler struct {
	log           *logger.Logger
	importService services.ImportService
	backupService services.BackupService
}

func NewImportHandler(log *logger.Logger, isvc services.ImportService, bsvc services.BackupService) *ImportHandler {
	return &ImportHandler{
		log:           log.With("handler", "ImportHandler"),
		importService: isvc,
		backupService: bsvc,
	}
}

// POST /api/import/spreadsheet
// Multipart upload of the source workbook; replaces the whole dataset.
func (h *ImportHandler) ImportSpreadsheet(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer func() { _ = file.Close() }()

	summary, err := h.importService.ImportSpreadsheet(c.Request.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPrimarySheetNotFound),
			errors.Is(err, services.ErrPrimarySheetEmpty):
			RespondError(c, http.StatusUnprocessableEntity, "bad_source", err)
		default:
			RespondError(c, http.StatusInternalServerError, "import_failed", err)
		}
		return
	}
	RespondOK(c, summary)
}

// POST /api/import/backup
// Raw JSON backup document in the request body; replaces the whole dataset.
func (h *ImportHandler) ImportBackup(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_body", err)
		return
	}
	summary, err := h.backupService.Import(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, services.ErrBadBackup) {
			RespondError(c, http.StatusUnprocessableEntity, "bad_backup", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "restore_failed", err)
		return
	}
	RespondOK(c, summary)
}

// GET /api/imports
func (h *ImportHandler) History(c *gin.Context) {
	records, err := h.importService.History(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "history_failed", err)
		return
	}
	RespondOK(c, records)
}
