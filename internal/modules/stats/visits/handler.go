package visits

import (
	"github.com/gin-gonic/gin"
	"github.com/morethan-log/core/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/visits", h.snapshot)
	rg.POST("/visits", h.record)
}

func (h *Handler) snapshot(c *gin.Context) {
	stats, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("reading visitor stats failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *Handler) record(c *gin.Context) {
	stats, err := h.service.Record(c.Request.Context())
	if err != nil {
		h.logger.Error("recording visit failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	response.OK(c, stats)
}
