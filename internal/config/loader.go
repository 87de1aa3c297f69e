package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "KEYIPDASH"

var (
	ErrConfigFileNotFound = stderrors.New("config: file not found")
	ErrConfigParseError   = stderrors.New("config: parse error")
	ErrConfigInvalid      = stderrors.New("config: invalid")
)

// LoadOption customises Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
}

// WithConfigPath reads the YAML file at path before applying env overrides.
func WithConfigPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// newViper builds a Viper instance with YAML type, the KEYIPDASH_ env prefix
// and a "." → "_" key replacer, so "dataset.path" resolves to
// KEYIPDASH_DATASET_PATH.  Every known key gets a default so that
// AutomaticEnv overrides reach Unmarshal even without a config file.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v, NewDefaultConfig())
	return v
}

func registerDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)

	v.SetDefault("dataset.source", d.Dataset.Source)
	v.SetDefault("dataset.path", d.Dataset.Path)
	v.SetDefault("dataset.object_key", d.Dataset.ObjectKey)
	v.SetDefault("dataset.encoding", d.Dataset.Encoding)
	v.SetDefault("dataset.strip_prefix", d.Dataset.StripPrefix)
	v.SetDefault("dataset.top_n", d.Dataset.TopN)
	v.SetDefault("dataset.watch", d.Dataset.Watch)
	v.SetDefault("dataset.watch_debounce", d.Dataset.WatchDebounce)

	v.SetDefault("upload.enabled", d.Upload.Enabled)
	v.SetDefault("upload.max_bytes", d.Upload.MaxBytes)
	v.SetDefault("upload.ttl", d.Upload.TTL)
	v.SetDefault("upload.strip_prefix", d.Upload.StripPrefix)
	v.SetDefault("upload.encoding", d.Upload.Encoding)
	v.SetDefault("upload.key_prefix", d.Upload.KeyPrefix)

	v.SetDefault("redis.mode", d.Redis.Mode)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)

	v.SetDefault("minio.endpoint", d.MinIO.Endpoint)
	v.SetDefault("minio.access_key", d.MinIO.AccessKey)
	v.SetDefault("minio.secret_key", d.MinIO.SecretKey)
	v.SetDefault("minio.bucket", d.MinIO.Bucket)
	v.SetDefault("minio.use_ssl", d.MinIO.UseSSL)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
}

// Load merges an optional YAML file, KEYIPDASH_* environment overrides and
// defaults, then validates the result.
func Load(opts ...LoadOption) (*Config, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	v := newViper()
	if o.path != "" {
		v.SetConfigFile(o.path)
		if err := v.ReadInConfig(); err != nil {
			return nil, classifyReadError(o.path, err)
		}
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from KEYIPDASH_* variables and defaults only.
//
//	KEYIPDASH_<SECTION>_<FIELD>   e.g.  KEYIPDASH_DATASET_PATH
func LoadFromEnv() (*Config, error) {
	return Load()
}

// MustLoad is Load that panics on error.
func MustLoad(opts ...LoadOption) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

func classifyReadError(path string, err error) error {
	var notFound viper.ConfigFileNotFoundError
	if stderrors.As(err, &notFound) || stderrors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
	}
	return fmt.Errorf("%w: %s: %v", ErrConfigParseError, path, err)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParseError, err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return cfg, nil
}

// Watch re-reads path whenever it changes and calls onChange with each valid
// result.  Invalid edits are reported to onError (if non-nil) and skipped.
// Watching stops when ctx is cancelled; viper itself cannot be unwatched, so
// later events are dropped instead.
func Watch(ctx context.Context, path string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return classifyReadError(path, err)
	}

	var mu sync.Mutex
	v.OnConfigChange(func(fsnotify.Event) {
		if ctx.Err() != nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

//Personal.AI order the ending
