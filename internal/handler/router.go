package handler

import (
	"path/filepath"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/service"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/storage"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/metrics"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Dependencies are the services the router dispatches to
type Dependencies struct {
	Video     *service.VideoService
	Download  *service.DownloadService
	Playback  *service.PlaybackService
	Quota     *service.QuotaService
	RateLimit *service.RateLimitService
	History   *storage.HistoryStore
	Storage   *storage.Manager
}

// NewRouter builds the HTTP routes
func NewRouter(cfg *model.Config, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(logger.Recovery())
	router.Use(logger.GinLogger())
	router.Use(middleware.CORS(&cfg.CORS))

	if cfg.Quota.Enabled {
		logger.Logger.Info("Quota limiting enabled",
			zap.Int64("daily_limit_mb", cfg.Quota.DailyLimitMB),
			zap.Int("reset_hour", cfg.Quota.ResetHour))
	}

	videoHandler := NewVideoHandler(deps.Video)
	downloadHandler := NewDownloadHandler(deps.Download, deps.Quota, deps.Storage, cfg.CORS.AllowedOrigins)
	playHandler := NewPlayHandler(deps.Playback)
	historyHandler := NewHistoryHandler(deps.History)
	quotaHandler := NewQuotaHandler(deps.Quota)

	// Only /api routes are rate limited.
	api := router.Group("/api")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimitMiddleware(deps.RateLimit))
		logger.Logger.Info("Rate limiting enabled", zap.Int("requests_per_minute", cfg.RateLimit.RequestsPerMinute))
	}
	{
		api.POST("/get-formats", videoHandler.GetFormats)
		api.GET("/download", downloadHandler.Stream)
		api.GET("/download/ws", downloadHandler.WebSocket)
		api.GET("/quota", quotaHandler.Get)
		api.GET("/health", videoHandler.HealthCheck)
	}

	router.GET("/play/*filename", playHandler.Play)
	router.HEAD("/play/*filename", playHandler.Play)
	router.GET("/history", historyHandler.List)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	mountFrontend(router, cfg.Frontend.Dir)
	return router
}

// mountFrontend serves the single-page UI when its directory exists
func mountFrontend(router *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	indexPath := filepath.Join(dir, "index.html")
	if ok, _ := afero.Exists(afero.NewOsFs(), indexPath); !ok {
		logger.Logger.Info("Frontend not found, UI disabled", zap.String("index", indexPath))
		return
	}

	staticPath := filepath.Join(dir, "static")
	logger.Logger.Info("Frontend paths",
		zap.String("static", staticPath),
		zap.String("index", indexPath))

	router.Static("/static", staticPath)
	router.StaticFile("/", indexPath)
}
