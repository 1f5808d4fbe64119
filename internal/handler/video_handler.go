package handler

import (
	"fmt"
	"net/http"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/apperr"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/service"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// VideoHandler handles video-related requests
type VideoHandler struct {
	videoService *service.VideoService
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(vs *service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: vs}
}

// GetFormats handles POST /api/get-formats
func (h *VideoHandler) GetFormats(c *gin.Context) {
	var req model.FormatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Warn("Invalid formats request", zap.Error(err))
		respondError(c, apperr.New(apperr.InvalidInput, "URL is required"))
		return
	}

	meta, err := h.videoService.GetFormats(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToFormatsResponse(meta))
}

// ToFormatsResponse renders metadata in its wire form
func ToFormatsResponse(meta *model.VideoMetadata) model.FormatsResponse {
	return model.FormatsResponse{
		Title:     meta.Title,
		Thumbnail: meta.ThumbnailURL,
		Formats: lo.Map(meta.Formats, func(f model.FormatOption, _ int) model.FormatResponse {
			height := f.Height.OrEmpty()
			resp := model.FormatResponse{
				FormatID:   f.FormatID,
				Resolution: fmt.Sprintf("%dp", height),
				Height:     height,
				Extension:  f.Extension,
				FPS:        f.FPS.ToPointer(),
				FileSize:   "N/A",
				VideoCodec: f.VideoCodec,
				AudioCodec: f.AudioCodec,
			}
			if size, ok := f.SizeBytes.Get(); ok {
				resp.FileSize = humanize.IBytes(uint64(size))
				resp.FileSizeBytes = &size
			}
			return resp
		}),
	}
}

// HealthCheck handles GET /api/health
func (h *VideoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "yt-video-downloader",
	})
}
