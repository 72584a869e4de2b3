// API server entry point for netmodel.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/netmodel/internal/application/matching"
	"github.com/turtacn/netmodel/internal/application/modelformat"
	"github.com/turtacn/netmodel/internal/config"
	"github.com/turtacn/netmodel/internal/infrastructure/database/redis"
	"github.com/turtacn/netmodel/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/netmodel/internal/infrastructure/storage/minio"
	httpserver "github.com/turtacn/netmodel/internal/interfaces/http"
	"github.com/turtacn/netmodel/internal/interfaces/http/handlers"
	"github.com/turtacn/netmodel/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("NETMODEL_CONFIG"), "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	level := zap.NewAtomicLevelAt(logging.ParseLevel(cfg.Log.Level))
	logger, err := logging.NewLoggerWithLevel(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	}, level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	logger.Info("starting netmodel API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode))

	collector := prometheus.NewNoopCollector()
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger.Named("metrics"))
		if err != nil {
			return err
		}
	}
	metrics := prometheus.NewAppMetrics(collector)

	storage, checkers, err := openStorage(cfg.MinIO, logger.Named("minio"))
	if err != nil {
		return err
	}

	cache, cacheCheckers, err := openCache(cfg.Cache, logger.Named("cache"))
	if err != nil {
		return err
	}
	checkers = append(checkers, cacheCheckers...)

	events, closeEvents, err := openEvents(cfg.Events, logger.Named("events"))
	if err != nil {
		return err
	}
	defer closeEvents()

	formatter, err := modelformat.NewService(modelformat.Options{
		ProtonID:          cfg.Canonical.ProtonID,
		IdentifierPattern: cfg.Canonical.IdentifierPattern,
	}, metrics, logger.Named("format"))
	if err != nil {
		return err
	}

	reactions := handlers.NewReactionHandler(matching.Options{
		Workers:           cfg.Matching.Workers,
		SingleCompartment: cfg.Matching.SingleCompartment,
		BooleanOnly:       cfg.Matching.BooleanOnly,
	}, storage, metrics, logger.Named("match"))
	if cache != nil {
		reactions.WithResultCache(cache, cfg.Cache.TTL)
	}
	reactions.WithEvents(events)

	gin.SetMode(cfg.Server.Mode)
	routerCfg := httpserver.RouterConfig{
		ReactionHandler: reactions,
		ModelHandler:  handlers.NewModelHandler(formatter, storage, metrics, logger.Named("format")).WithEvents(events),
		HealthHandler: handlers.NewHealthHandler(version, checkers...),
		Logging:       middleware.DefaultLoggingConfig(),
		MaxBodySize:   cfg.Server.MaxBodySize,
		Logger:        logger.Named("http"),
		Metrics:       metrics,
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsCollector = collector
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	if configPath != "" {
		err := config.Watch(configPath, func(next *config.Config) {
			level.SetLevel(logging.ParseLevel(next.Log.Level))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := reactions.SetDefaults(ctx, matching.Options{
				Workers:           next.Matching.Workers,
				SingleCompartment: next.Matching.SingleCompartment,
				BooleanOnly:       next.Matching.BooleanOnly,
			}); err != nil {
				logger.Warn("match result cache not purged", logging.Err(err))
			}
			logger.Info("configuration reloaded", logging.String("log_level", next.Log.Level))
		}, func(err error) {
			logger.Warn("configuration reload rejected", logging.Err(err))
		})
		if err != nil {
			logger.Warn("configuration watch disabled", logging.Err(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		return srv.Stop(context.Background())
	})
	return g.Wait()
}

// openStorage connects the object store when credentials are configured.
func openStorage(cfg config.MinIOConfig, logger logging.Logger) (minio.ObjectStorageRepository, []handlers.HealthChecker, error) {
	if cfg.AccessKeyID == "" {
		logger.Info("object storage disabled: no access key configured")
		return nil, nil, nil
	}
	client, err := minio.NewMinIOClient(&minio.MinIOConfig{
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		UseSSL:          cfg.UseSSL,
		Region:          cfg.Region,
		DefaultBucket:   cfg.DefaultBucket,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return minio.NewMinIORepository(client, logger), []handlers.HealthChecker{minioHealth{client}}, nil
}

// openCache connects the match result cache when it is enabled.
func openCache(cfg config.CacheConfig, logger logging.Logger) (redis.Cache, []handlers.HealthChecker, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}
	client, err := redis.NewClient(&redis.RedisConfig{
		Mode:       cfg.Mode,
		Addrs:      cfg.Addrs,
		MasterName: cfg.Master,
		Username:   cfg.Username,
		Password:   cfg.Password,
		DB:         cfg.DB,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	cache := redis.NewRedisCache(client, logger, redis.WithPrefix(cfg.Prefix), redis.WithDefaultTTL(cfg.TTL))
	return cache, []handlers.HealthChecker{redisHealth{cache}}, nil
}

// openEvents creates the run-event publisher when events are enabled. The
// returned func flushes it.
func openEvents(cfg config.EventsConfig, logger logging.Logger) (kafka.RunPublisher, func(), error) {
	if !cfg.Enabled {
		return kafka.NopRunPublisher{}, func() {}, nil
	}
	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		Acks:          cfg.Acks,
		Compression:   cfg.Compression,
		WriteTimeout:  cfg.WriteTimeout,
		SASLMechanism: cfg.SASLMechanism,
		SASLUsername:  cfg.SASLUsername,
		SASLPassword:  cfg.SASLPassword,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("run events enabled", logging.Strings("brokers", cfg.Brokers), logging.String("topic", cfg.Topic))
	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Warn("closing event producer", logging.Err(err))
		}
	}
	return kafka.NewRunPublisher(producer, cfg.Topic, logger), closeFn, nil
}
