package handler

import (
	"net/http"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/storage"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves the list of completed downloads
type HistoryHandler struct {
	history *storage.HistoryStore
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history *storage.HistoryStore) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List handles GET /history
func (h *HistoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.history.Load())
}
