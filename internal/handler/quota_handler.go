package handler

import (
	"net/http"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/service"

	"github.com/gin-gonic/gin"
)

// QuotaHandler reports the caller's remaining download volume
type QuotaHandler struct {
	quotaService *service.QuotaService
}

// NewQuotaHandler creates a new quota handler
func NewQuotaHandler(qs *service.QuotaService) *QuotaHandler {
	return &QuotaHandler{quotaService: qs}
}

// Get handles GET /api/quota
func (h *QuotaHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.quotaService.Info(c.ClientIP()))
}
