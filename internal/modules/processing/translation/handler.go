package translation

import (
	"github.com/gin-gonic/gin"
	"github.com/morethan-log/core/internal/models"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/translations")
	g.GET("", h.list)
	g.POST("/sync", authMW, h.sync)
}

// translationListItem is the admin view of one stored draft: metadata only,
// the block tree stays out of the listing.
type translationListItem struct {
	Slug         string `json:"slug"`
	SourcePostID string `json:"sourcePostId"`
	Model        string `json:"model"`
	GeneratedAt  string `json:"generatedAt"`
	Fallbacks    int    `json:"fallbackSegments"`
}

func (h *Handler) list(c *gin.Context) {
	records, err := h.service.ListRecords(c.Request.Context())
	if err != nil {
		h.logger.Error("list translations failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	items := make([]translationListItem, 0, len(records))
	for _, record := range records {
		items = append(items, listItem(record))
	}
	response.OK(c, items)
}

func (h *Handler) sync(c *gin.Context) {
	if err := h.service.Run(c.Request.Context()); err != nil {
		h.logger.Error("translation sync failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"synced": true})
}

func listItem(record models.TranslationRecord) translationListItem {
	return translationListItem{
		Slug:         record.Slug,
		SourcePostID: record.SourcePostID,
		Model:        record.Model,
		GeneratedAt:  record.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Fallbacks:    len(record.Fallbacks),
	}
}
