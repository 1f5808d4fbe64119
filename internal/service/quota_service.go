package service

import (
	"sync"
	"time"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/apperr"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// ErrQuotaExceeded is returned when a client has used up its daily download volume.
var ErrQuotaExceeded = apperr.New(apperr.QuotaExceeded, "Daily download quota exceeded. Please try again tomorrow.")

// quotaEntry tracks the bytes downloaded by one IP in the current window
type quotaEntry struct {
	usedBytes int64
	resetAt   time.Time
}

// QuotaInfo is a snapshot of one client's quota
type QuotaInfo struct {
	Enabled        bool      `json:"enabled"`
	UsedBytes      int64     `json:"used_bytes"`
	LimitBytes     int64     `json:"limit_bytes"`
	RemainingBytes int64     `json:"remaining_bytes"`
	ResetAt        time.Time `json:"reset_at"`
}

// QuotaService manages per-IP daily download volume
type QuotaService struct {
	cfg      *model.QuotaConfig
	quotas   map[string]*quotaEntry
	mu       sync.Mutex
	quitChan chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewQuotaService creates a new quota service
func NewQuotaService(cfg *model.QuotaConfig) *QuotaService {
	qs := &QuotaService{
		cfg:      cfg,
		quotas:   make(map[string]*quotaEntry),
		quitChan: make(chan struct{}),
		now:      time.Now,
	}

	if cfg.Enabled {
		go qs.resetRoutine()
	}

	return qs
}

func (qs *QuotaService) limitBytes() int64 {
	return qs.cfg.DailyLimitMB * 1024 * 1024
}

// Check returns ErrQuotaExceeded when ip has no volume left for today
func (qs *QuotaService) Check(ip string) error {
	if !qs.cfg.Enabled {
		return nil
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	entry := qs.entry(ip)
	if entry.usedBytes >= qs.limitBytes() {
		logger.Logger.Warn("Quota exhausted",
			zap.String("ip", ip),
			zap.String("used", humanize.IBytes(uint64(entry.usedBytes))),
			zap.Time("reset_at", entry.resetAt))
		return ErrQuotaExceeded
	}
	return nil
}

// AddUsage charges size bytes to ip
func (qs *QuotaService) AddUsage(ip string, size int64) {
	if !qs.cfg.Enabled || size <= 0 {
		return
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	entry := qs.entry(ip)
	entry.usedBytes += size

	logger.Logger.Debug("Quota usage updated",
		zap.String("ip", ip),
		zap.String("used", humanize.IBytes(uint64(entry.usedBytes))),
		zap.String("limit", humanize.IBytes(uint64(qs.limitBytes()))))
}

// Info returns the current quota of ip
func (qs *QuotaService) Info(ip string) QuotaInfo {
	if !qs.cfg.Enabled {
		return QuotaInfo{Enabled: false}
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	entry := qs.entry(ip)
	remaining := qs.limitBytes() - entry.usedBytes
	if remaining < 0 {
		remaining = 0
	}
	return QuotaInfo{
		Enabled:        true,
		UsedBytes:      entry.usedBytes,
		LimitBytes:     qs.limitBytes(),
		RemainingBytes: remaining,
		ResetAt:        entry.resetAt,
	}
}

// entry returns the live entry for ip, resetting it when its window passed.
// Callers hold qs.mu.
func (qs *QuotaService) entry(ip string) *quotaEntry {
	now := qs.now()
	entry, ok := qs.quotas[ip]
	if !ok {
		entry = &quotaEntry{resetAt: qs.nextReset(now)}
		qs.quotas[ip] = entry
		return entry
	}
	if !now.Before(entry.resetAt) {
		entry.usedBytes = 0
		entry.resetAt = qs.nextReset(now)
	}
	return entry
}

// nextReset returns the next configured reset time after now
func (qs *QuotaService) nextReset(now time.Time) time.Time {
	reset := time.Date(now.Year(), now.Month(), now.Day(), qs.cfg.ResetHour, qs.cfg.ResetMinute, 0, 0, now.Location())
	if !reset.After(now) {
		reset = reset.AddDate(0, 0, 1)
	}
	return reset
}

func (qs *QuotaService) resetRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-qs.quitChan:
			logger.Logger.Info("Quota service stopped")
			return
		case <-ticker.C:
			qs.prune()
		}
	}
}

// prune drops entries whose window has passed
func (qs *QuotaService) prune() int {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	now := qs.now()
	removed := 0
	for ip, entry := range qs.quotas {
		if !now.Before(entry.resetAt) {
			delete(qs.quotas, ip)
			removed++
		}
	}

	if removed > 0 {
		logger.Logger.Info("Quota reset completed", zap.Int("entries_reset", removed))
	}
	return removed
}

// Stop stops the quota service
func (qs *QuotaService) Stop() {
	qs.stopOnce.Do(func() { close(qs.quitChan) })
}
