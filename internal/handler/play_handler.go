package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/apperr"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/service"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlayHandler streams stored files with byte-range support
type PlayHandler struct {
	playbackService *service.PlaybackService
}

// NewPlayHandler creates a new play handler
func NewPlayHandler(ps *service.PlaybackService) *PlayHandler {
	return &PlayHandler{playbackService: ps}
}

// Play handles GET and HEAD /play/*filename. ?download=1 asks the browser
// to save the file instead of playing it.
func (h *PlayHandler) Play(c *gin.Context) {
	filename := strings.TrimPrefix(c.Param("filename"), "/")

	playback, err := h.playbackService.Open(filename, c.GetHeader("Range"))
	if err != nil {
		h.fail(c, filename, err)
		return
	}
	defer playback.Body.Close()

	metrics.ObservePlayback(playback.Status)

	c.Header("Accept-Ranges", "bytes")
	if cr := playback.ContentRange(); cr != "" {
		c.Header("Content-Range", cr)
	}
	if c.Query("download") == "1" {
		c.Header("Content-Disposition", contentDisposition("attachment", filename))
	}

	if c.Request.Method == http.MethodHead {
		c.Header("Content-Type", playback.ContentType)
		c.Header("Content-Length", strconv.FormatInt(playback.Length, 10))
		c.Status(playback.Status)
		return
	}

	c.DataFromReader(playback.Status, playback.Length, playback.ContentType, playback.Body, nil)
}

func (h *PlayHandler) fail(c *gin.Context, filename string, err error) {
	var rangeErr *service.RangeError
	switch {
	case errors.As(err, &rangeErr):
		metrics.ObservePlayback(http.StatusRequestedRangeNotSatisfiable)
		c.Header("Accept-Ranges", "bytes")
		c.Header("Content-Range", rangeErr.ContentRange())
		c.Status(http.StatusRequestedRangeNotSatisfiable)
	case apperr.Is(err, apperr.FileNotFound):
		metrics.ObservePlayback(http.StatusNotFound)
		logger.Logger.Debug("Playback of missing file", zap.String("filename", filename))
		c.String(http.StatusNotFound, "File not found")
	default:
		metrics.ObservePlayback(http.StatusInternalServerError)
		logger.Logger.Error("Playback failed", zap.String("filename", filename), zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal server error")
	}
}

// contentDisposition builds a Content-Disposition header, switching to the
// RFC 5987 form for names that are not plain ASCII.
func contentDisposition(disposition, filename string) string {
	plain := true
	for _, r := range filename {
		if r > 127 || r < 32 || r == '"' || r == '\\' || r == ';' || r == ',' {
			plain = false
			break
		}
	}

	if plain {
		return fmt.Sprintf(`%s; filename="%s"`, disposition, filename)
	}
	return fmt.Sprintf(`%s; filename*=UTF-8''%s`, disposition, url.PathEscape(filename))
}
