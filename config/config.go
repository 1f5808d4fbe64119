package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// Load loads configuration from environment variables. envFiles are read
// first when present; variables already set in the environment win.
func Load(envFiles ...string) *model.Config {
	existing := lo.Filter(envFiles, func(path string, _ int) bool {
		_, err := os.Stat(path)
		return err == nil
	})
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if len(existing) > 0 {
		_ = godotenv.Load(existing...)
	}

	return &model.Config{
		Server: model.ServerConfig{
			Port:        getEnvInt("SERVER_PORT", 8080),
			Host:        getEnvStr("SERVER_HOST", "0.0.0.0"),
			ReadTimeout: getEnvInt("SERVER_READ_TIMEOUT", 30),
		},
		Storage: model.StorageConfig{
			DownloadDir:     getEnvStr("DOWNLOAD_DIR", "./downloads"),
			CleanupInterval: getEnvInt("STORAGE_CLEANUP_INTERVAL", 3600),
			FileTTLSeconds:  getEnvInt("FILE_TTL_SECONDS", 0),
			PartialTTL:      getEnvInt("STORAGE_PARTIAL_TTL", 21600),
		},
		History: model.HistoryConfig{
			FilePath: getEnvStr("HISTORY_FILE", "download_history.json"),
		},
		Engine: model.EngineConfig{
			MergeFormat:      getEnvStr("ENGINE_MERGE_FORMAT", "mp4"),
			OutputTemplate:   getEnvStr("ENGINE_OUTPUT_TEMPLATE", ""),
			NoPlaylist:       getEnvBool("ENGINE_NO_PLAYLIST", true),
			ProgressInterval: getEnvInt("ENGINE_PROGRESS_INTERVAL_MS", 500),
			MergeBestAudio:   getEnvBool("ENGINE_MERGE_BEST_AUDIO", true),
		},
		Stream: model.StreamConfig{
			BufferSize: getEnvInt("STREAM_BUFFER_SIZE", 16),
		},
		Logging: model.LoggingConfig{
			Level:    getEnvStr("LOG_LEVEL", "info"),
			FilePath: getEnvStr("LOG_FILE", "./log/app.log"),
		},
		Security: model.SecurityConfig{
			AllowedDomains: getEnvList("ALLOWED_DOMAINS", nil),
			MaxFormatIDLen: getEnvInt("MAX_FORMAT_ID_LEN", 128),
		},
		Quota: model.QuotaConfig{
			Enabled:      getEnvBool("QUOTA_ENABLED", false),
			DailyLimitMB: getEnvInt64("QUOTA_DAILY_LIMIT_MB", 5000),
			ResetHour:    getEnvInt("QUOTA_RESET_HOUR", 0),
			ResetMinute:  getEnvInt("QUOTA_RESET_MINUTE", 0),
		},
		RateLimit: model.RateLimitConfig{
			Enabled:           getEnvBool("RATELIMIT_ENABLED", true),
			RequestsPerMinute: getEnvInt("RATELIMIT_REQUESTS_PER_MINUTE", 120),
			CleanupInterval:   getEnvInt("RATELIMIT_CLEANUP_INTERVAL", 1800),
		},
		CORS: model.CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", nil),
		},
		Frontend: model.FrontendConfig{
			Dir: getEnvStr("FRONTEND_DIR", "./frontend"),
		},
	}
}

func getEnvStr(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	valStr := getEnvStr(key, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	valStr := getEnvStr(key, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	valStr := strings.ToLower(getEnvStr(key, ""))
	if valStr == "true" || valStr == "1" || valStr == "yes" {
		return true
	}
	if valStr == "false" || valStr == "0" || valStr == "no" {
		return false
	}
	return defaultVal
}

// getEnvList splits a comma-separated variable, dropping blank items
func getEnvList(key string, defaultVal []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	items := lo.Map(strings.Split(valStr, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(items)
}
