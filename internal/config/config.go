// Package config defines the configuration structures of KeyIP-Dashboard.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// RequestTimeout bounds one dashboard computation.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
}

// DatasetConfig describes the fixed dataset served by GET /api/v1/dashboard.
type DatasetConfig struct {
	// Source is "file" or "object".  Empty means no fixed dataset; the
	// dashboard then reports awaiting_input.
	Source      string `mapstructure:"source"`
	Path        string `mapstructure:"path"`
	ObjectKey   string `mapstructure:"object_key"`
	Encoding    string `mapstructure:"encoding"`
	StripPrefix bool   `mapstructure:"strip_prefix"`
	TopN        int    `mapstructure:"top_n"`
	// Watch re-validates a file source whenever it changes on disk.
	Watch         bool          `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
}

// UploadConfig governs the upload variant.
type UploadConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxBytes    int64         `mapstructure:"max_bytes"`
	TTL         time.Duration `mapstructure:"ttl"`
	StripPrefix bool          `mapstructure:"strip_prefix"`
	Encoding    string        `mapstructure:"encoding"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
}

// RedisConfig holds Redis connection parameters for the upload store.
type RedisConfig struct {
	Mode         string        `mapstructure:"mode"` // "standalone" | "sentinel" | "cluster"
	Addr         string        `mapstructure:"addr"`
	Addrs        []string      `mapstructure:"addrs"`
	MasterName   string        `mapstructure:"master_name"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MinIOConfig holds object-storage parameters for the "object" source.
type MinIOConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	UseSSL       bool   `mapstructure:"use_ssl"`
	CreateBucket bool   `mapstructure:"create_bucket"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "text"
	Output string `mapstructure:"output"`
}

// MetricsConfig controls the /metrics endpoint.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	Path                 string `mapstructure:"path"`
	Namespace            string `mapstructure:"namespace"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Dataset DatasetConfig `mapstructure:"dataset"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Redis   RedisConfig   `mapstructure:"redis"`
	MinIO   MinIOConfig   `mapstructure:"minio"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// Dataset source kinds accepted in dataset.source.
const (
	DatasetSourceNone   = ""
	DatasetSourceFile   = "file"
	DatasetSourceObject = "object"
)

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	switch c.Dataset.Source {
	case DatasetSourceNone:
	case DatasetSourceFile:
		if c.Dataset.Path == "" {
			return fmt.Errorf("config: dataset.path is required when dataset.source is %q", DatasetSourceFile)
		}
	case DatasetSourceObject:
		if c.Dataset.ObjectKey == "" {
			return fmt.Errorf("config: dataset.object_key is required when dataset.source is %q", DatasetSourceObject)
		}
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("config: minio.endpoint is required when dataset.source is %q", DatasetSourceObject)
		}
	default:
		return fmt.Errorf("config: dataset.source %q is invalid; expected file|object or empty", c.Dataset.Source)
	}
	if c.Dataset.TopN < 1 {
		return fmt.Errorf("config: dataset.top_n must be ≥ 1, got %d", c.Dataset.TopN)
	}
	if c.Dataset.Watch && c.Dataset.Source != DatasetSourceFile {
		return fmt.Errorf("config: dataset.watch requires dataset.source %q", DatasetSourceFile)
	}

	if c.Upload.Enabled {
		if c.Upload.MaxBytes < 1 {
			return fmt.Errorf("config: upload.max_bytes must be ≥ 1, got %d", c.Upload.MaxBytes)
		}
		if c.Redis.Addr == "" && len(c.Redis.Addrs) == 0 {
			return fmt.Errorf("config: redis.addr is required when uploads are enabled")
		}
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|text", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
