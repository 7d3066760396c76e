package posts

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
	rg.GET("/posts", h.list)
	rg.GET("/posts/:slug", h.get)
	rg.GET("/posts/:slug/record-map", h.recordMap)
}

func (h *Handler) list(c *gin.Context) {
	merged, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list posts failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	response.OK(c, merged)
}

func (h *Handler) get(c *gin.Context) {
	post, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.logger.Error("get post failed", zap.String("slug", c.Param("slug")), zap.Error(err))
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, post)
}

func (h *Handler) recordMap(c *gin.Context) {
	slug := c.Param("slug")
	tree, err := h.service.RecordMap(c.Request.Context(), slug, c.Query("lang"))
	if err != nil {
		h.logger.Error("load record map failed", zap.String("slug", slug), zap.Error(err))
		response.InternalError(c, err)
		return
	}
	if tree == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, tree)
}
