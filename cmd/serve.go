package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/handler"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/service"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/storage"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if err := logger.Init(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Video Download Server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("download_dir", cfg.Storage.DownloadDir),
	)

	fsys := afero.NewOsFs()

	storageManager := storage.NewManager(&cfg.Storage, fsys)
	if err := storageManager.EnsureDownloadDir(); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}
	storageManager.Start()
	defer storageManager.Stop()

	history := storage.NewHistoryStore(fsys, cfg.History.FilePath)
	eng := newEngine(cfg, storageManager)

	quotaService := service.NewQuotaService(&cfg.Quota)
	defer quotaService.Stop()

	rateLimitService := service.NewRateLimitService(&cfg.RateLimit)
	defer rateLimitService.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(cfg, handler.Dependencies{
		Video:     service.NewVideoService(eng),
		Download:  service.NewDownloadService(eng, history, cfg.Security, cfg.Stream.BufferSize),
		Playback:  service.NewPlaybackService(storageManager),
		Quota:     quotaService,
		RateLimit: rateLimitService,
		History:   history,
		Storage:   storageManager,
	})

	// WriteTimeout stays zero: event streams last as long as the download.
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Logger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Logger.Error("Server error", zap.Error(err))
		return err
	case <-sigChan:
	}

	logger.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server stopped")
	return nil
}
