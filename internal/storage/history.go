package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// HistoryStore is the single owner of the download history file. Entries are
// kept most-recent-first and every mutation rewrites the whole list.
type HistoryStore struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewHistoryStore creates a history store persisted at path
func NewHistoryStore(fsys afero.Fs, path string) *HistoryStore {
	return &HistoryStore{fs: fsys, path: path}
}

// Load returns a copy of the persisted history. A missing or unreadable file
// yields an empty list.
func (h *HistoryStore) Load() []model.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.read()
}

// Append inserts entry at the front and persists the updated list before returning
func (h *HistoryStore) Append(entry model.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	current := h.read()
	updated := make([]model.HistoryEntry, 0, len(current)+1)
	updated = append(updated, entry)
	updated = append(updated, current...)

	if err := h.write(updated); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	logger.Logger.Debug("History entry appended",
		zap.String("filename", entry.Filename),
		zap.Int("entries", len(updated)))
	return nil
}

func (h *HistoryStore) read() []model.HistoryEntry {
	data, err := afero.ReadFile(h.fs, h.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Logger.Warn("History unreadable, using empty history", zap.String("path", h.path), zap.Error(err))
		}
		return []model.HistoryEntry{}
	}

	var entries []model.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Logger.Warn("History corrupt, using empty history", zap.String("path", h.path), zap.Error(err))
		return []model.HistoryEntry{}
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return entries
}

// write replaces the file through a synced temp file and a rename.
func (h *HistoryStore) write(entries []model.HistoryEntry) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(h.path); dir != "." {
		if err := h.fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmpPath := h.path + ".tmp"
	f, err := h.fs.Create(tmpPath)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return h.fs.Rename(tmpPath, h.path)
}
