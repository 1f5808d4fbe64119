package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/apperr"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/engine"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/storage"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/metrics"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompleteMessage is the message of every Finished event
const CompleteMessage = "Download complete!"

const defaultEventBuffer = 16

// DownloadService runs download sessions against the engine
type DownloadService struct {
	engine   engine.Engine
	history  *storage.HistoryStore
	security model.SecurityConfig
	buffer   int
}

// NewDownloadService creates a new download service
func NewDownloadService(e engine.Engine, history *storage.HistoryStore, security model.SecurityConfig, buffer int) *DownloadService {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	return &DownloadService{
		engine:   e,
		history:  history,
		security: security,
		buffer:   buffer,
	}
}

// Validate checks a download request before any stream is opened
func (s *DownloadService) Validate(req *model.DownloadRequest) error {
	if req == nil || strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.FormatID) == "" {
		return apperr.New(apperr.InvalidInput, "URL and format_id are required")
	}
	if !validator.ValidateURL(req.URL, s.security.AllowedDomains) {
		return apperr.New(apperr.InvalidInput, "Invalid or unsupported URL")
	}
	if !validator.ValidateFormatID(req.FormatID, s.security.MaxFormatIDLen) {
		return apperr.New(apperr.InvalidInput, "Invalid format_id")
	}
	return nil
}

// Start launches the engine fetch for req on its own goroutine and returns
// the session whose channel carries its events. Cancelling ctx stops the fetch.
// The caller must run Validate first.
func (s *DownloadService) Start(ctx context.Context, req *model.DownloadRequest) *DownloadSession {
	session := &DownloadSession{
		ID:             uuid.NewString(),
		URL:            req.URL,
		FormatSelector: req.FormatID,
		Title:          req.Title,
		Thumbnail:      req.Thumbnail,
		channel:        NewProgressChannel(s.buffer),
		state:          model.SessionPending,
	}

	metrics.DownloadsStarted.Inc()
	metrics.ActiveDownloads.Inc()
	go s.run(ctx, session)
	return session
}

func (s *DownloadService) run(ctx context.Context, session *DownloadSession) {
	defer metrics.ActiveDownloads.Dec()
	defer func() {
		if r := recover(); r != nil {
			logger.Logger.Error("Download panicked",
				zap.String("session", session.ID),
				zap.Any("panic", r))
			s.fail(session, fmt.Sprintf("internal error: %v", r))
		}
	}()

	session.transition(model.SessionRunning)
	logger.Logger.Info("Download started",
		zap.String("session", session.ID),
		zap.String("url", session.URL),
		zap.String("format", session.FormatSelector))

	result, err := s.engine.Fetch(ctx, session.URL, session.FormatSelector, func(t engine.Tick) {
		session.channel.Push(model.Downloading(t.Percent, t.TotalBytes, t.Speed, t.ETA))
	})
	if err != nil {
		logger.Logger.Warn("Download failed",
			zap.String("session", session.ID),
			zap.String("url", session.URL),
			zap.Error(err))
		s.fail(session, err.Error())
		return
	}
	if result == nil || result.Path == "" {
		s.fail(session, "engine reported no output file")
		return
	}

	filename := filepath.Base(result.Path)
	title := session.Title
	if strings.TrimSpace(title) == "" {
		title = result.Title
	}

	thumbnail := session.Thumbnail
	if strings.TrimSpace(thumbnail) == "" {
		thumbnail = result.Thumbnail
	}

	entry := model.HistoryEntry{Title: title, Filename: filename, Thumbnail: thumbnail}
	if err := s.history.Append(entry); err != nil {
		logger.Logger.Error("Failed to record history",
			zap.String("session", session.ID),
			zap.String("filename", filename),
			zap.Error(err))
	}

	session.setFilename(filename)
	session.transition(model.SessionFinished)
	metrics.DownloadsCompleted.WithLabelValues(model.SessionFinished.String()).Inc()
	session.channel.Push(model.Finished(CompleteMessage, filename))

	logger.Logger.Info("Download finished",
		zap.String("session", session.ID),
		zap.String("filename", filename))
}

func (s *DownloadService) fail(session *DownloadSession, message string) {
	if !session.transition(model.SessionFailed) {
		return
	}
	metrics.DownloadsCompleted.WithLabelValues(model.SessionFailed.String()).Inc()
	session.channel.Push(model.Failed(message))
}

// DownloadSession is one running download and its event stream
type DownloadSession struct {
	ID             string
	URL            string
	FormatSelector string
	Title          string
	Thumbnail      string

	channel *ProgressChannel

	mu       sync.RWMutex
	state    model.SessionState
	filename string
}

// Channel returns the session's progress channel
func (d *DownloadSession) Channel() *ProgressChannel {
	return d.channel
}

// Events is shorthand for Channel().Events()
func (d *DownloadSession) Events() <-chan model.ProgressEvent {
	return d.channel.Events()
}

// State returns the current lifecycle state
func (d *DownloadSession) State() model.SessionState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Filename returns the stored file name once the session finished
func (d *DownloadSession) Filename() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.filename
}

func (d *DownloadSession) transition(next model.SessionState) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.state.CanTransition(next) {
		return false
	}
	d.state = next
	return true
}

func (d *DownloadSession) setFilename(name string) {
	d.mu.Lock()
	d.filename = name
	d.mu.Unlock()
}
