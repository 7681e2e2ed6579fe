// API server entry point for the comps engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/compsred/comps-engine/internal/application/comps"
	apprenovation "github.com/compsred/comps-engine/internal/application/renovation"
	"github.com/compsred/comps-engine/internal/config"
	"github.com/compsred/comps-engine/internal/domain/scoring"
	"github.com/compsred/comps-engine/internal/infrastructure/database/postgres"
	"github.com/compsred/comps-engine/internal/infrastructure/database/postgres/repositories"
	"github.com/compsred/comps-engine/internal/infrastructure/database/redis"
	"github.com/compsred/comps-engine/internal/infrastructure/messaging/kafka"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/compsred/comps-engine/internal/infrastructure/storage/minio"
	httpserver "github.com/compsred/comps-engine/internal/interfaces/http"
	"github.com/compsred/comps-engine/internal/interfaces/http/handlers"
	"github.com/compsred/comps-engine/internal/interfaces/http/middleware"
)

const defaultConfigPath = "configs/config.yaml"

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	cfgFromFile := err == nil
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: using default configuration: %v\n", err)
		cfg = config.NewDefaultConfig()
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger initialization failed: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	logger.Info("starting comps-engine API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
	)

	if cfgFromFile {
		// Running settings are not hot-swapped; the watch surfaces that the
		// file on disk has drifted from the running configuration.
		config.Watch(*configPath, func(_ *config.Config) {
			logger.Warn("configuration file changed on disk, restart to apply",
				logging.String("path", *configPath))
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Postgres.
	conn, err := postgres.NewConnection(postgres.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Database:        cfg.Database.DBName,
		Username:        cfg.Database.User,
		Password:        cfg.Database.Password,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", logging.Err(err))
	}
	defer conn.Close()

	if cfg.Database.MigrationPath != "" {
		if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
			logger.Fatal("database migration failed", logging.Err(err))
		}
	}

	// Redis.
	redisClient, err := redis.NewClient(&redis.RedisConfig{
		Mode:         "standalone",
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, logger)
	if err != nil {
		logger.Fatal("redis connection failed", logging.Err(err))
	}
	defer redisClient.Close()

	var cacheOpts []redis.CacheOption
	if cfg.Redis.KeyPrefix != "" {
		cacheOpts = append(cacheOpts, redis.WithPrefix(cfg.Redis.KeyPrefix))
	}
	if cfg.Redis.DefaultTTL > 0 {
		cacheOpts = append(cacheOpts, redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
	}
	cache := redis.NewCache(redisClient, logger, cacheOpts...)
	locks := redis.NewLockFactory(redisClient, logger)

	// Kafka. Event publication is best-effort: a broker outage disables
	// events but not the API.
	var deckEvents comps.EventPublisher
	var renoEvents apprenovation.EventPublisher
	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:    cfg.Kafka.Brokers,
		MaxRetries: cfg.Kafka.ProducerRetries,
		BatchSize:  cfg.Kafka.BatchSize,
	}, logger)
	if err != nil {
		logger.Warn("kafka producer unavailable, events disabled", logging.Err(err))
	} else {
		defer producer.Close()
		deckEvents = producer
		renoEvents = producer

		if cfg.Kafka.AutoCreateTopics {
			ensureTopics(ctx, cfg.Kafka.Brokers, logger)
		}

		// Cross-instance cache coherence: replicas invalidate their own
		// writes locally, and this consumer drops analyses mutated by
		// the others.
		consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.GroupID,
			Topics:  []string{kafka.TopicCardAdded, kafka.TopicDeckDeleted},
		}, logger)
		if err != nil {
			logger.Warn("kafka consumer unavailable, cache invalidation disabled", logging.Err(err))
		} else {
			invalidate := comps.NewAnalysisInvalidationHandler(cache, logger)
			consumer.Subscribe(kafka.TopicCardAdded, invalidate)
			consumer.Subscribe(kafka.TopicDeckDeleted, invalidate)
			if err := consumer.Start(ctx); err != nil {
				logger.Warn("kafka consumer failed to start", logging.Err(err))
			} else {
				defer consumer.Close()
			}
		}
	}

	// MinIO.
	minioClient, err := minio.NewMinIOClient(&minio.MinIOConfig{
		Endpoint:        cfg.MinIO.Endpoint,
		AccessKeyID:     cfg.MinIO.AccessKey,
		SecretAccessKey: cfg.MinIO.SecretKey,
		UseSSL:          cfg.MinIO.UseSSL,
		DefaultBucket:   cfg.MinIO.Bucket,
		PresignExpiry:   cfg.MinIO.PresignExpiry,
	}, logger)
	if err != nil {
		logger.Fatal("minio connection failed", logging.Err(err))
	}
	defer minioClient.Close()

	if err := minioClient.EnsureBuckets(ctx); err != nil {
		logger.Fatal("minio bucket setup failed", logging.Err(err))
	}
	storage := minio.NewObjectStorageRepository(minioClient, logger)

	// Metrics.
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "comps",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		logger.Fatal("metrics collector failed", logging.Err(err))
	}
	appMetrics := prometheus.RegisterAppMetrics(collector)

	// Repositories and services.
	repoLogger := repositories.AdaptLogger(logger)
	deckRepo := repositories.NewDeckRepository(conn.DB(), repoLogger)
	propertyRepo := repositories.NewPropertyRepository(conn.DB(), repoLogger)

	engine := scoringEngine(cfg.Scoring)

	deckService := comps.NewDeckService(deckRepo, propertyRepo, cache, locks, deckEvents, engine, appMetrics, logger)
	exportService := comps.NewExportService(deckRepo, storage, cfg.MinIO.Bucket, deckEvents, logger)
	twinService := comps.NewTwinService(deckRepo, deckEvents, logger)
	renovationService := apprenovation.NewService(cfg.Renovation, renoEvents, logger)

	// HTTP stack.
	healthHandler := handlers.NewHealthHandler(version,
		&postgresHealthAdapter{conn: conn},
		&redisHealthAdapter{client: redisClient},
		&kafkaHealthAdapter{brokers: cfg.Kafka.Brokers, logger: logger},
		&minioHealthAdapter{client: minioClient},
	)

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = []string{"chrome-extension://*", "https://*.comps.red"}

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.Metrics = appMetrics

	rateLimitConfig := middleware.DefaultRateLimitConfig()
	limiter := middleware.NewTokenBucketLimiter(
		rateLimitConfig.RequestsPerSecond,
		rateLimitConfig.BurstSize,
		rateLimitConfig.CleanupInterval,
	)
	defer limiter.Stop()

	router := httpserver.NewRouter(httpserver.RouterConfig{
		DeckHandler:       handlers.NewDeckHandler(deckService, exportService, twinService, logger),
		RenovationHandler: handlers.NewRenovationHandler(renovationService, logger),
		HealthHandler:     healthHandler,
		CORSMiddleware:    middleware.NewCORSMiddleware(corsConfig),
		Logging:           middleware.RequestLogging(logger, loggingConfig),
		RateLimit:         middleware.RateLimit(limiter, rateLimitConfig),
		MetricsHandler:    collector.Handler(),
		Logger:            logger,
	})

	srv := httpserver.NewServer(cfg.Server, router, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("http server error", logging.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", logging.Err(err))
	}

	logger.Info("stopped")
}

// loadConfig loads configuration from file, failing if the file is absent.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return config.Load(path)
}

// scoringEngine builds the scoring engine, applying configured weights when
// they are set.
func scoringEngine(cfg config.ScoringConfig) *scoring.Engine {
	sum := cfg.LocationWeight + cfg.StructureWeight + cfg.ConditionWeight + cfg.FeaturesWeight
	if sum <= 0 {
		return scoring.NewEngine()
	}
	return scoring.NewEngine(scoring.WithWeights(scoring.Weights{
		Location:  cfg.LocationWeight,
		Structure: cfg.StructureWeight,
		Condition: cfg.ConditionWeight,
		Features:  cfg.FeaturesWeight,
	}))
}

// ensureTopics creates the default event topics, tolerating failure.
func ensureTopics(ctx context.Context, brokers []string, logger logging.Logger) {
	tm, err := kafka.NewTopicManager(brokers, logger)
	if err != nil {
		logger.Warn("kafka topic manager unavailable", logging.Err(err))
		return
	}
	defer tm.Close()

	if err := tm.EnsureDefaultTopics(ctx); err != nil {
		logger.Warn("kafka topic creation failed", logging.Err(err))
	}
}

//Personal.AI order the ending
