package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 8080

	DefaultDatasetEncoding = "utf-8"
	DefaultTopN            = 10

	DefaultUploadMaxBytes = 32 << 20
	DefaultUploadTTL      = time.Hour

	DefaultRedisAddr = "localhost:6379"

	DefaultMinIOBucket = "keyipdash-datasets"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "keyipdash"
)

// NewDefaultConfig returns a Config with every default applied, including the
// boolean defaults that ApplyDefaults cannot infer from zero values.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Dataset.StripPrefix = true
	cfg.Upload.Enabled = true
	cfg.Upload.StripPrefix = false
	cfg.Metrics.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-value field in cfg.  Fields already set are
// left unchanged so explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}

	// ── Dataset ───────────────────────────────────────────────────────────────
	if cfg.Dataset.Encoding == "" {
		cfg.Dataset.Encoding = DefaultDatasetEncoding
	}
	if cfg.Dataset.TopN == 0 {
		cfg.Dataset.TopN = DefaultTopN
	}
	if cfg.Dataset.WatchDebounce == 0 {
		cfg.Dataset.WatchDebounce = 500 * time.Millisecond
	}

	// ── Upload ────────────────────────────────────────────────────────────────
	if cfg.Upload.MaxBytes == 0 {
		cfg.Upload.MaxBytes = DefaultUploadMaxBytes
	}
	if cfg.Upload.TTL == 0 {
		cfg.Upload.TTL = DefaultUploadTTL
	}
	if cfg.Upload.Encoding == "" {
		cfg.Upload.Encoding = DefaultDatasetEncoding
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = "standalone"
	}
	if cfg.Redis.Addr == "" && len(cfg.Redis.Addrs) == 0 {
		cfg.Redis.Addr = DefaultRedisAddr
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

//Personal.AI order the ending
