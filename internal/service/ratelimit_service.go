package service

import (
	"sync"
	"time"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"

	"go.uber.org/zap"
)

const rateWindow = time.Minute

// rateLimitEntry tracks the requests of one IP in the current window
type rateLimitEntry struct {
	requests int
	resetAt  time.Time
}

// RateLimitService is a fixed-window per-IP request limiter
type RateLimitService struct {
	cfg      *model.RateLimitConfig
	limits   map[string]*rateLimitEntry
	mu       sync.Mutex
	quitChan chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(cfg *model.RateLimitConfig) *RateLimitService {
	rls := &RateLimitService{
		cfg:      cfg,
		limits:   make(map[string]*rateLimitEntry),
		quitChan: make(chan struct{}),
		now:      time.Now,
	}

	if cfg.Enabled {
		go rls.cleanupRoutine()
	}

	return rls
}

// IsAllowed counts a request from ip and reports whether it fits the window
func (rls *RateLimitService) IsAllowed(ip string) bool {
	if !rls.cfg.Enabled {
		return true
	}

	rls.mu.Lock()
	defer rls.mu.Unlock()

	now := rls.now()
	entry, ok := rls.limits[ip]
	if !ok || !now.Before(entry.resetAt) {
		rls.limits[ip] = &rateLimitEntry{requests: 1, resetAt: now.Add(rateWindow)}
		return true
	}

	if entry.requests >= rls.cfg.RequestsPerMinute {
		logger.Logger.Warn("Rate limit exceeded",
			zap.String("ip", ip),
			zap.Int("limit", rls.cfg.RequestsPerMinute))
		return false
	}
	entry.requests++
	return true
}

// GetRemaining returns the requests ip may still make in the current window,
// or -1 when limiting is disabled
func (rls *RateLimitService) GetRemaining(ip string) int {
	if !rls.cfg.Enabled {
		return -1
	}

	rls.mu.Lock()
	defer rls.mu.Unlock()

	entry, ok := rls.limits[ip]
	if !ok || !rls.now().Before(entry.resetAt) {
		return rls.cfg.RequestsPerMinute
	}

	remaining := rls.cfg.RequestsPerMinute - entry.requests
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (rls *RateLimitService) cleanupRoutine() {
	interval := time.Duration(rls.cfg.CleanupInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rls.quitChan:
			logger.Logger.Info("Rate limit service stopped")
			return
		case <-ticker.C:
			rls.cleanup()
		}
	}
}

// cleanup removes expired windows
func (rls *RateLimitService) cleanup() int {
	rls.mu.Lock()
	defer rls.mu.Unlock()

	now := rls.now()
	removed := 0
	for ip, entry := range rls.limits {
		if !now.Before(entry.resetAt) {
			delete(rls.limits, ip)
			removed++
		}
	}

	if removed > 0 {
		logger.Logger.Debug("Rate limit entries cleaned up",
			zap.Int("removed", removed),
			zap.Int("remaining", len(rls.limits)))
	}
	return removed
}

// Stop stops the rate limit service
func (rls *RateLimitService) Stop() {
	rls.stopOnce.Do(func() { close(rls.quitChan) })
}
