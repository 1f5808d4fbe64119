package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/apperr"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/validator"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrFileNotFound is returned when a stored file does not exist or the name is unsafe.
var ErrFileNotFound = apperr.New(apperr.FileNotFound, "File not found")

// Suffixes and infixes of engine artifacts left behind by an interrupted download.
var (
	partialSuffixes = []string{".part", ".ytdl"}
	partialInfixes  = []string{".part-Frag", ".temp."}
)

// Manager owns the download directory
type Manager struct {
	cfg      *model.StorageConfig
	fs       afero.Fs
	quitChan chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewManager creates a new storage manager
func NewManager(cfg *model.StorageConfig, fsys afero.Fs) *Manager {
	return &Manager{
		cfg:      cfg,
		fs:       fsys,
		quitChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Fs returns the filesystem backing the download directory
func (m *Manager) Fs() afero.Fs {
	return m.fs
}

// Dir returns the download directory
func (m *Manager) Dir() string {
	return m.cfg.DownloadDir
}

// EnsureDownloadDir ensures download directory exists
func (m *Manager) EnsureDownloadDir() error {
	return m.fs.MkdirAll(m.cfg.DownloadDir, 0755)
}

// Resolve maps a bare filename to its path inside the download directory
func (m *Manager) Resolve(filename string) (string, error) {
	if !validator.IsSafeFilename(filename) {
		return "", ErrFileNotFound
	}
	return filepath.Join(m.cfg.DownloadDir, filename), nil
}

// Stat returns the file info of a stored file
func (m *Manager) Stat(filename string) (os.FileInfo, error) {
	path, err := m.Resolve(filename)
	if err != nil {
		return nil, err
	}

	info, err := m.fs.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Logger.Warn("Stat stored file failed", zap.String("path", path), zap.Error(err))
		}
		return nil, ErrFileNotFound
	}
	if info.IsDir() {
		return nil, ErrFileNotFound
	}
	return info, nil
}

// Open opens a stored file for reading
func (m *Manager) Open(filename string) (afero.File, os.FileInfo, error) {
	info, err := m.Stat(filename)
	if err != nil {
		return nil, nil, err
	}

	path, _ := m.Resolve(filename)
	f, err := m.fs.Open(path)
	if err != nil {
		logger.Logger.Warn("Open stored file failed", zap.String("path", path), zap.Error(err))
		return nil, nil, ErrFileNotFound
	}
	return f, info, nil
}

// Size returns the size in bytes of a stored file
func (m *Manager) Size(filename string) (int64, error) {
	info, err := m.Stat(filename)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Start starts the cleanup routine
func (m *Manager) Start() {
	go m.cleanupRoutine()
}

// Stop stops the cleanup routine
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.quitChan) })
}

func (m *Manager) cleanupRoutine() {
	interval := time.Duration(m.cfg.CleanupInterval) * time.Second
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Logger.Info("Storage cleanup routine started",
		zap.Duration("interval", interval),
		zap.Int("partial_ttl_seconds", m.cfg.PartialTTL),
		zap.Int("file_ttl_seconds", m.cfg.FileTTLSeconds))

	for {
		select {
		case <-m.quitChan:
			logger.Logger.Info("Storage cleanup routine stopped")
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep removes abandoned partial downloads and expired completed files.
// A zero TTL disables the matching removal. It returns the number of files removed.
func (m *Manager) Sweep() int {
	entries, err := afero.ReadDir(m.fs, m.cfg.DownloadDir)
	if err != nil {
		logger.Logger.Warn("Read download dir failed", zap.Error(err))
		return 0
	}

	now := m.now()
	partialTTL := time.Duration(m.cfg.PartialTTL) * time.Second
	fileTTL := time.Duration(m.cfg.FileTTLSeconds) * time.Second
	deleted, failed := 0, 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		age := now.Sub(entry.ModTime())
		expired := false
		if isPartial(entry.Name()) {
			expired = partialTTL > 0 && age > partialTTL
		} else if fileTTL > 0 {
			expired = age > fileTTL
		}
		if !expired {
			continue
		}

		path := filepath.Join(m.cfg.DownloadDir, entry.Name())
		if err := m.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Logger.Error("Failed to remove file", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}
		logger.Logger.Debug("File removed by cleanup", zap.String("path", path))
		deleted++
	}

	if deleted > 0 || failed > 0 {
		logger.Logger.Info("Storage cleanup completed",
			zap.Int("deleted_count", deleted),
			zap.Int("error_count", failed))
	}
	return deleted
}

func isPartial(name string) bool {
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	for _, infix := range partialInfixes {
		if strings.Contains(name, infix) {
			return true
		}
	}
	return false
}
