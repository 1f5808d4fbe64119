package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/apperr"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/engine"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/metrics"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"go.uber.org/zap"
)

// DefaultTitle is used when the engine reports no title
const DefaultTitle = "No title"

// VideoService handles video metadata extraction
type VideoService struct {
	engine engine.Engine
}

// NewVideoService creates a new video service
func NewVideoService(e engine.Engine) *VideoService {
	return &VideoService{engine: e}
}

// GetFormats probes videoURL and returns its selectable formats, best first.
// It returns either complete metadata or an error, never a partial result.
func (s *VideoService) GetFormats(ctx context.Context, videoURL string) (*model.VideoMetadata, error) {
	if strings.TrimSpace(videoURL) == "" {
		metrics.ProbeRequests.WithLabelValues("invalid_input").Inc()
		return nil, apperr.New(apperr.InvalidInput, "URL is required")
	}

	info, err := s.engine.Probe(ctx, videoURL)
	if err != nil {
		if engine.IsInvalidSource(err) {
			logger.Logger.Warn("Source unavailable", zap.String("url", videoURL), zap.Error(err))
			metrics.ProbeRequests.WithLabelValues("source_unavailable").Inc()
			return nil, apperr.Wrap(apperr.SourceUnavailable, err.Error(), err)
		}
		logger.Logger.Error("Failed to get video info", zap.String("url", videoURL), zap.Error(err))
		metrics.ProbeRequests.WithLabelValues("engine_failure").Inc()
		return nil, apperr.Wrap(apperr.EngineFailure, err.Error(), err)
	}
	if info == nil {
		metrics.ProbeRequests.WithLabelValues("engine_failure").Inc()
		return nil, apperr.New(apperr.EngineFailure, "engine returned no metadata")
	}

	meta := &model.VideoMetadata{
		Title:        lo.Ternary(strings.TrimSpace(info.Title) == "", DefaultTitle, info.Title),
		ThumbnailURL: info.Thumbnail,
		Formats:      NormalizeFormats(info.Formats),
	}

	metrics.ProbeRequests.WithLabelValues("ok").Inc()
	logger.Logger.Info("Video info retrieved",
		zap.String("title", meta.Title),
		zap.Int("raw_formats", len(info.Formats)),
		zap.Int("formats", len(meta.Formats)))
	return meta, nil
}

// NormalizeFormats drops formats without a video height and orders the rest
// by height, tallest first. Formats of equal height keep the engine's order.
func NormalizeFormats(raw []engine.Format) []model.FormatOption {
	withHeight := lo.Filter(raw, func(f engine.Format, _ int) bool {
		return f.Height != nil && *f.Height >= 0 && !math.IsNaN(*f.Height)
	})

	formats := lo.Map(withHeight, func(f engine.Format, _ int) model.FormatOption {
		return model.FormatOption{
			FormatID:   f.FormatID,
			Height:     mo.Some(int(*f.Height)),
			Extension:  f.Ext,
			FPS:        optionalFloat(f.FPS),
			SizeBytes:  approximateSize(f),
			VideoCodec: f.VCodec,
			AudioCodec: f.ACodec,
		}
	})

	sort.SliceStable(formats, func(i, j int) bool {
		return formats[i].Height.OrEmpty() > formats[j].Height.OrEmpty()
	})
	return formats
}

func optionalFloat(v *float64) mo.Option[float64] {
	if v == nil || math.IsNaN(*v) {
		return mo.None[float64]()
	}
	return mo.Some(*v)
}

func approximateSize(f engine.Format) mo.Option[int64] {
	for _, candidate := range []*float64{f.FileSize, f.FileSizeApprox} {
		if candidate != nil && *candidate > 0 {
			return mo.Some(int64(*candidate))
		}
	}
	return mo.None[int64]()
}
