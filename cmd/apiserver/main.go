// Command apiserver serves the patent dashboard over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Dashboard/internal/application/dashboard"
	"github.com/turtacn/KeyIP-Dashboard/internal/config"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/database/redis"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/dataset"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/storage/minio"
	httpserver "github.com/turtacn/KeyIP-Dashboard/internal/interfaces/http"
	"github.com/turtacn/KeyIP-Dashboard/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyIP-Dashboard/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configPath string
		httpPort   int
	)
	cmd := &cobra.Command{
		Use:           "apiserver",
		Short:         "Serve the patent dashboard JSON API",
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []config.LoadOption{}
			if configPath != "" {
				opts = append(opts, config.WithConfigPath(configPath))
			}
			cfg, err := config.Load(opts...)
			if err != nil {
				return err
			}
			if httpPort > 0 {
				cfg.Server.Port = httpPort
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file (env KEYIPDASH_* always applies)")
	cmd.Flags().IntVar(&httpPort, "http-port", 0, "HTTP port (overrides server.port)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, configPath string) error {
	lc := loggerConfig(cfg.Log)
	lc.Name = "apiserver"
	lc.InitialFields = map[string]string{"version": version}
	logger, err := logging.NewLogger(lc)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logging.SetDefault(logger)

	logger.Info("starting dashboard API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.String("dataset_source", cfg.Dataset.Source),
		logging.Bool("uploads", cfg.Upload.Enabled))

	// Metrics
	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.DashboardMetrics
	)
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
		}, logger)
		if err != nil {
			return err
		}
		metrics = prometheus.NewDashboardMetrics(collector)
	}

	loader := dataset.NewLoader(dataset.LoaderOptions{Encoding: cfg.Dataset.Encoding}, logger)
	svc := dashboard.NewService(loader, logger, dashboard.WithMetrics(dashboard.NewPrometheusRecorder(metrics)))

	var checkers []handlers.HealthChecker

	// Fixed dataset
	var source dataset.Source
	switch cfg.Dataset.Source {
	case config.DatasetSourceFile:
		fileSrc := dataset.NewFileSource(cfg.Dataset.Path, cfg.Dataset.Encoding)
		source = fileSrc
		if cfg.Dataset.Watch {
			w, err := startWatcher(ctx, fileSrc, loader, cfg, metrics, logger)
			if err != nil {
				return err
			}
			defer w.Stop()
		}
	case config.DatasetSourceObject:
		store, err := minio.NewMinIOClient(minioConfig(cfg.MinIO), logger)
		if err != nil {
			return err
		}
		defer store.Close()
		source = dataset.NewObjectSource(store, store.Bucket(), cfg.Dataset.ObjectKey, cfg.Dataset.Encoding)
		checkers = append(checkers, store)
	}
	if source != nil {
		checkers = append(checkers, dataset.NewSourceChecker(source))
	}

	// Uploads
	var uploads handlers.UploadStore
	if cfg.Upload.Enabled {
		client, err := redis.NewClient(redisConfig(cfg.Redis), logger)
		if err != nil {
			return err
		}
		defer client.Close()
		var storeOpts []redis.UploadStoreOption
		if cfg.Upload.KeyPrefix != "" {
			storeOpts = append(storeOpts, redis.WithKeyPrefix(cfg.Upload.KeyPrefix))
		}
		uploads = redis.NewUploadStore(client, cfg.Upload.TTL, logger, storeOpts...)
		checkers = append(checkers, handlers.Optional(client))
	}

	if configPath != "" {
		err := config.Watch(ctx, configPath,
			func(*config.Config) {
				logger.Warn("configuration file changed; restart to apply", logging.String("path", configPath))
			},
			func(err error) {
				logger.Error("configuration file change is invalid", logging.Err(err))
			})
		if err != nil {
			return err
		}
	}

	health := handlers.NewHealthHandler(version, checkers...)
	routerCfg := httpserver.RouterConfig{
		DashboardHandler: handlers.NewDashboardHandler(svc, handlers.DashboardHandlerConfig{
			Source:      source,
			StripPrefix: cfg.Dataset.StripPrefix,
			TopN:        cfg.Dataset.TopN,
			Timeout:     cfg.Server.RequestTimeout,
		}, logger),
		UploadHandler: handlers.NewUploadHandler(svc, uploads, handlers.UploadHandlerConfig{
			MaxBytes:    cfg.Upload.MaxBytes,
			StripPrefix: cfg.Upload.StripPrefix,
			Encoding:    cfg.Upload.Encoding,
			TopN:        cfg.Dataset.TopN,
			Timeout:     cfg.Server.RequestTimeout,
		}, uploadMetrics(metrics), logger),
		HealthHandler: health,
		Logger:        logger,
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		cors := middleware.DefaultCORSConfig(cfg.Server.CORSOrigins...)
		routerCfg.CORS = &cors
	}
	if metrics != nil {
		health.WithRecorder(metrics)
		routerCfg.MetricsCollector = collector
		routerCfg.MetricsPath = cfg.Metrics.Path
		routerCfg.HTTPMetrics = metrics
	}

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, httpserver.NewRouter(routerCfg), logger)
	return server.Run(ctx)
}

func startWatcher(ctx context.Context, src *dataset.FileSource, loader *dataset.Loader, cfg *config.Config, metrics *prometheus.DashboardMetrics, logger logging.Logger) (*dataset.Watcher, error) {
	w, err := dataset.NewWatcher(src, loader, func(res dataset.ValidationResult) {
		if metrics != nil {
			metrics.RecordValidation(res.Err == nil)
		}
	}, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Dataset.WatchDebounce > 0 {
		w.SetDebounce(cfg.Dataset.WatchDebounce)
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}

// uploadMetrics avoids handing a typed nil to the handler.
func uploadMetrics(m *prometheus.DashboardMetrics) handlers.UploadMetrics {
	if m == nil {
		return nil
	}
	return m
}

//Personal.AI order the ending
