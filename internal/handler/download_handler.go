package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/apperr"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/service"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/storage"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/sse"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const wsWriteWait = 10 * time.Second

// DownloadHandler streams download sessions to clients
type DownloadHandler struct {
	downloadService *service.DownloadService
	quotaService    *service.QuotaService
	storage         *storage.Manager
	upgrader        websocket.Upgrader
}

// NewDownloadHandler creates a new download handler. allowedOrigins limits
// WebSocket upgrades the same way CORS limits plain requests.
func NewDownloadHandler(ds *service.DownloadService, qs *service.QuotaService, sm *storage.Manager, allowedOrigins []string) *DownloadHandler {
	return &DownloadHandler{
		downloadService: ds,
		quotaService:    qs,
		storage:         sm,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowedOrigins) == 0 || origin == "" || lo.Contains(allowedOrigins, origin)
			},
		},
	}
}

// preflight binds and validates the request. On failure it has already
// written the error response.
func (h *DownloadHandler) preflight(c *gin.Context) (*model.DownloadRequest, bool) {
	var req model.DownloadRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.InvalidInput, "URL and format_id are required", err))
		return nil, false
	}
	if err := h.downloadService.Validate(&req); err != nil {
		logger.Logger.Warn("Invalid download request",
			zap.String("url", req.URL),
			zap.String("format_id", req.FormatID),
			zap.Error(err))
		respondError(c, err)
		return nil, false
	}
	if err := h.quotaService.Check(c.ClientIP()); err != nil {
		respondError(c, err)
		return nil, false
	}
	return &req, true
}

// Stream handles GET /api/download as a server-sent event stream
func (h *DownloadHandler) Stream(c *gin.Context) {
	req, ok := h.preflight(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	session := h.downloadService.Start(ctx, req)
	defer session.Channel().Abandon()

	sse.PrepareHeaders(c.Writer.Header())
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for {
		select {
		case ev, open := <-session.Events():
			if !open {
				h.chargeQuota(c.ClientIP(), session)
				return
			}
			if err := sse.Encode(c.Writer, ev); err != nil {
				logger.Logger.Info("Event stream write failed",
					zap.String("session", session.ID),
					zap.Error(err))
				return
			}
			c.Writer.Flush()
		case <-ctx.Done():
			logger.Logger.Info("Client disconnected, cancelling download",
				zap.String("session", session.ID))
			return
		}
	}
}

// WebSocket handles GET /api/download/ws, sending one JSON text frame per event
func (h *DownloadHandler) WebSocket(c *gin.Context) {
	req, ok := h.preflight(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	session := h.downloadService.Start(ctx, req)
	defer session.Channel().Abandon()

	// The client never sends data frames; a read error means it went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, open := <-session.Events():
			if !open {
				h.chargeQuota(c.ClientIP(), session)
				closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(session.State()))
				_ = conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(wsWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				logger.Logger.Info("WebSocket write failed",
					zap.String("session", session.ID),
					zap.Error(err))
				return
			}
		case <-ctx.Done():
			logger.Logger.Info("WebSocket closed, cancelling download",
				zap.String("session", session.ID))
			return
		}
	}
}

func (h *DownloadHandler) chargeQuota(ip string, session *service.DownloadSession) {
	if session.State() != model.SessionFinished {
		return
	}
	size, err := h.storage.Size(session.Filename())
	if err != nil {
		logger.Logger.Warn("Finished file missing from storage",
			zap.String("filename", session.Filename()),
			zap.Error(err))
		return
	}
	h.quotaService.AddUsage(ip, size)
}
