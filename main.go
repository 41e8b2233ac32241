package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"lotwatch/torgiwatch/config"
	"lotwatch/torgiwatch/helpers"
	"lotwatch/torgiwatch/internal/crawler"
	"lotwatch/torgiwatch/internal/server"
	"lotwatch/torgiwatch/logger"
	"lotwatch/torgiwatch/pkg/metrics"
	"lotwatch/torgiwatch/services/cache"
	"lotwatch/torgiwatch/services/notifier"
	"lotwatch/torgiwatch/services/publisher"
	"lotwatch/torgiwatch/services/scheduler"
	"lotwatch/torgiwatch/services/store"
	"lotwatch/torgiwatch/services/worker"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("check_interval", cfg.CheckInterval).
		Str("database_driver", cfg.DatabaseDriver).
		Msg("Starting application")

	// Cancel on SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	log.Info().
		Strs("strategies", services.Cascade.StrategyNames()).
		Msg("Created extraction cascade")

	api := server.NewServer(services.Store, services.Worker, server.Options{
		MaxPagesCheck: cfg.MaxPagesCheck,
		MaxPagesFull:  cfg.MaxPagesFull,
		CheckInterval: cfg.CheckInterval,
	})
	sched := scheduler.New(cfg.CheckInterval, services.Worker.RunScheduled)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Run(gctx, cfg.WebAddr())
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return metrics.NewPrometheusServer(cfg.MetricsAddr).Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Application exited with error")
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Store     *store.Store
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Notifier  notifier.Notifier
	Cascade   *crawler.Cascade
	Paginator *crawler.Paginator
	Details   *crawler.DetailFetcher
	Worker    *worker.Worker
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			logger.Warn("publisher close: %v", err)
		}
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			logger.Warn("store close: %v", err)
		}
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Initialize storage
	st, err := store.Open(ctx, cfg.DatabaseDriver, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	services.Store = st

	services.Cache = newCache(cfg)
	services.Publisher = newPublisher(ctx, cfg)
	services.Notifier = newNotifier(cfg)

	// Initialize crawler
	cascade, details := crawler.CreateCascade(cfg, services.Cache)
	services.Cascade = cascade
	services.Details = details
	services.Paginator = &crawler.Paginator{Source: cascade, Delay: cfg.PageDelay}

	services.Worker = worker.NewWorker(
		services.Paginator,
		services.Details,
		services.Store,
		services.Notifier,
		services.Publisher,
		helpers.NewLogger(cfg.ErrorLogFile),
		cfg.MaxPagesCheck,
	)

	return services, nil
}

// newCache uses memcache when configured and reachable, otherwise an in-process cache
func newCache(cfg *config.Config) cache.CacheService {
	log := logger.ForCache()
	if cfg.MemcacheAddr != "" {
		mc := cache.NewMemcacheService(cfg.MemcacheAddr)
		err := mc.Ping()
		if err == nil {
			log.Info().Str("address", cfg.MemcacheAddr).Msg("Connected to Memcache")
			return mc
		}
		log.Warn().Err(err).Str("address", cfg.MemcacheAddr).Msg("Memcache unavailable, using in-memory cache")
	}
	return cache.NewMemoryService(cfg.RateLimitBlock)
}

// newPublisher publishes to Redis streams when configured
func newPublisher(ctx context.Context, cfg *config.Config) publisher.Publisher {
	if cfg.RedisAddr == "" {
		return publisher.NopPublisher{}
	}

	redisPublisher := publisher.NewRedisPublisher(
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)

	log := logger.ForPublisher()
	if err := redisPublisher.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis unreachable, publishing fails until it is back")
	} else {
		log.Info().
			Str("address", cfg.RedisAddr).
			Int("db", cfg.RedisDB).
			Str("stream", cfg.RedisStream).
			Msg("Connected to Redis")
	}
	return redisPublisher
}

// newNotifier sends to Telegram when a bot token is configured, otherwise logs
func newNotifier(cfg *config.Config) notifier.Notifier {
	log := logger.ForNotifier()
	if cfg.TelegramBotToken == "" {
		log.Info().Msg("TELEGRAM_BOT_TOKEN not set, notifications go to the log")
		return notifier.NewLogNotifier()
	}
	if !notifier.ValidToken(cfg.TelegramBotToken) {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN is malformed, notifications go to the log")
		return notifier.NewLogNotifier()
	}

	tg, err := notifier.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.NotifyTimeout)
	if err != nil {
		log.Warn().Err(err).Msg("Telegram disabled, notifications go to the log")
		return notifier.NewLogNotifier()
	}
	return tg
}
