// Package redis backs the short-lived upload sessions of the dashboard API
// with Redis.  Client owns the connection; UploadStore owns the key layout.
package redis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

var (
	ErrClientClosed     = errors.New(errors.ErrCodeCacheError, "redis client is closed")
	ErrConnectionFailed = errors.New(errors.ErrCodeCacheError, "redis connection failed")
)

// Topology modes.
const (
	ModeStandalone = "standalone"
	ModeSentinel   = "sentinel"
	ModeCluster    = "cluster"
)

// RedisConfig selects the topology and connection limits.  Addr is used in
// standalone mode; Addrs lists sentinels or cluster seeds.
type RedisConfig struct {
	Mode         string        `mapstructure:"mode"`
	Addr         string        `mapstructure:"addr"`
	Addrs        []string      `mapstructure:"addrs"`
	MasterName   string        `mapstructure:"master_name"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	TLSEnabled   bool          `mapstructure:"tls_enabled"`
	TLSCAFile    string        `mapstructure:"tls_ca_file"`
	TLSInsecure  bool          `mapstructure:"tls_insecure"`
}

// Client is the connection shared by the upload store and the readiness
// check.  Commands issued after Close fail with ErrClientClosed.
type Client struct {
	rdb    redis.UniversalClient
	mode   string
	logger logging.Logger

	mu     sync.RWMutex
	closed bool
}

// NewClient connects and pings once within DialTimeout.
func NewClient(cfg *RedisConfig, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	opts, mode, err := universalOptions(cfg, log)
	if err != nil {
		return nil, err
	}

	var rdb redis.UniversalClient
	switch mode {
	case ModeCluster:
		rdb = redis.NewClusterClient(opts.Cluster())
	case ModeSentinel:
		rdb = redis.NewFailoverClient(opts.Failover())
	default:
		rdb = redis.NewClient(opts.Simple())
	}

	c := &Client{rdb: rdb, mode: mode, logger: log.Named("redis")}

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, ErrConnectionFailed.WithCause(err).WithDetail(opts.Addrs[0])
	}

	c.logger.Info("Redis client connected",
		logging.String("mode", mode),
		logging.Strings("addrs", opts.Addrs))
	return c, nil
}

// universalOptions resolves defaults and the effective mode.  An unknown
// mode falls back to standalone with a warning.
func universalOptions(cfg *RedisConfig, log logging.Logger) (*redis.UniversalOptions, string, error) {
	if cfg == nil {
		cfg = &RedisConfig{}
	}
	mode := cfg.Mode
	switch mode {
	case ModeStandalone, ModeSentinel, ModeCluster:
	case "":
		mode = ModeStandalone
	default:
		log.Warn("Unknown redis mode, using standalone", logging.String("mode", cfg.Mode))
		mode = ModeStandalone
	}

	addrs := cfg.Addrs
	if mode == ModeStandalone || len(addrs) == 0 {
		addr := cfg.Addr
		if addr == "" {
			addr = "localhost:6379"
		}
		addrs = []string{addr}
	}
	if mode == ModeSentinel && cfg.MasterName == "" {
		return nil, "", errors.New(errors.ErrCodeValidation, "redis sentinel mode requires master_name")
	}

	tlsConfig, err := buildTLSConfig(cfg)
	if err != nil {
		return nil, "", err
	}

	opts := &redis.UniversalOptions{
		Addrs:        addrs,
		MasterName:   cfg.MasterName,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   cfg.MaxRetries,
		TLSConfig:    tlsConfig,
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = 10 * runtime.GOMAXPROCS(0)
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = 2
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 3 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 3 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	return opts, mode, nil
}

func buildTLSConfig(cfg *RedisConfig) (*tls.Config, error) {
	if !cfg.TLSEnabled {
		return nil, nil
	}
	tlsConfig := &tls.Config{InsecureSkipVerify: cfg.TLSInsecure, MinVersion: tls.VersionTLS12}
	if cfg.TLSCAFile == "" {
		return tlsConfig, nil
	}
	pem, err := os.ReadFile(cfg.TLSCAFile)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "read redis CA file").WithDetail(cfg.TLSCAFile)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New(errors.ErrCodeValidation, "redis CA file holds no certificates").WithDetail(cfg.TLSCAFile)
	}
	tlsConfig.RootCAs = pool
	return tlsConfig, nil
}

// Mode is the effective topology.
func (c *Client) Mode() string { return c.mode }

// Name identifies the client in readiness reports.
func (c *Client) Name() string { return "redis" }

// Check pings the server; it satisfies the HTTP HealthChecker interface.
func (c *Client) Check(ctx context.Context) error { return c.Ping(ctx) }

func (c *Client) Ping(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	return c.rdb.Ping(ctx).Err()
}

// Close is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.rdb.Close(); err != nil {
		c.logger.Error("Failed to close Redis client", logging.Err(err))
		return err
	}
	c.logger.Info("Closed Redis client")
	return nil
}

// Raw exposes the go-redis client for tests and admin tooling.
func (c *Client) Raw() redis.UniversalClient { return c.rdb }

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// The commands below are the ones UploadStore issues.

func (c *Client) TxPipeline() redis.Pipeliner {
	return c.rdb.TxPipeline()
}

func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if c.closedErr(cmd) {
		return cmd
	}
	return c.rdb.Get(ctx, key)
}

func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if c.closedErr(cmd) {
		return cmd
	}
	return c.rdb.Del(ctx, keys...)
}

func (c *Client) TTL(ctx context.Context, key string) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Second)
	if c.closedErr(cmd) {
		return cmd
	}
	return c.rdb.TTL(ctx, key)
}

func (c *Client) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	cmd := redis.NewMapStringStringCmd(ctx)
	if c.closedErr(cmd) {
		return cmd
	}
	return c.rdb.HGetAll(ctx, key)
}

// closedErr marks cmd failed and reports true once the client is closed.
func (c *Client) closedErr(cmd redis.Cmder) bool {
	if !c.isClosed() {
		return false
	}
	cmd.SetErr(ErrClientClosed)
	return true
}

//Personal.AI order the ending
