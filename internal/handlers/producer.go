package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/services"
)

type ProducerHandler struct {
	log             *logger.Logger
	producerService services.ProducerService
}

func NewProducerHandler(log *logger.Logger, psvc services.ProducerService) *ProducerHandler {
	return &ProducerHandler{
		log:             log.With("handler", "ProducerHandler"),
		producerService: psvc,
	}
}

// GET /api/producers
func (h *ProducerHandler) List(c *gin.Context) {
	producers, err := h.producerService.List(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, producers)
}

// GET /api/producers/:id
func (h *ProducerHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return
	}
	detail, err := h.producerService.Detail(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "detail_failed", err)
		return
	}
	RespondOK(c, detail)
}
