package model

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	History   HistoryConfig
	Engine    EngineConfig
	Stream    StreamConfig
	Logging   LoggingConfig
	Security  SecurityConfig
	Quota     QuotaConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Frontend  FrontendConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port        int
	Host        string
	ReadTimeout int // seconds; writes are never cut so event streams can run to completion
}

// StorageConfig holds download directory configuration
type StorageConfig struct {
	DownloadDir     string
	CleanupInterval int // seconds
	FileTTLSeconds  int // 0 keeps completed files forever
	PartialTTL      int // seconds before an abandoned partial download is swept
}

// HistoryConfig holds history persistence configuration
type HistoryConfig struct {
	FilePath string
}

// EngineConfig is passed through to the extraction engine
type EngineConfig struct {
	MergeFormat      string // container forced on merged downloads, e.g. "mp4"
	OutputTemplate   string
	NoPlaylist       bool
	ProgressInterval int  // milliseconds between progress ticks
	MergeBestAudio   bool // fetch "<id>+bestaudio/<id>/best" instead of the bare id
}

// StreamConfig holds progress stream configuration
type StreamConfig struct {
	BufferSize int // events buffered between the engine and the response writer
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string
	FilePath string
}

// SecurityConfig holds request validation configuration
type SecurityConfig struct {
	AllowedDomains []string // empty allows any http(s) host
	MaxFormatIDLen int
}

// QuotaConfig holds per-IP daily download quota configuration
type QuotaConfig struct {
	Enabled      bool
	DailyLimitMB int64
	ResetHour    int
	ResetMinute  int
}

// RateLimitConfig holds per-IP request rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	CleanupInterval   int // seconds
}

// CORSConfig holds cross-origin configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// FrontendConfig holds the location of the single-page UI
type FrontendConfig struct {
	Dir string
}
