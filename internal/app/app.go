package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/config"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/enrich"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/deps"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/links"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/metrics"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/redis"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/scheduler"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/sources/seed"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/store"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/store/memory"
	redisstore "github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/store/redis"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/store/sqlite"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	kv       store.KV
	roller   *scheduler.WindowRoller
	reloader *scheduler.SnapshotReloader
}

func New(ctx context.Context) (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Calendar days (history, analytics) follow the configured zone.
	clock := func() time.Time { return time.Now().In(cfg.Location) }

	kv, redisClient, err := openKV(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}
	loggerClient.Info("snapshot store initialized", logger.String("backend", kv.Name()))

	// The gauge reads the store lazily, so it is safe to bind it later.
	var linkStore *links.Store
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(func() int {
			if linkStore == nil {
				return 0
			}
			return linkStore.Count()
		})
	}

	analyzer, enrichMode, err := newAnalyzer(ctx, cfg, loggerClient, redisClient, m)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	loggerClient.Info("enrichment configured", logger.String("mode", enrichMode))

	linkStore, err = links.Open(ctx, kv, links.Options{
		Key:    cfg.SnapshotKey,
		Seed:   links.SeedFunc(seed.Source(cfg.SeedFile, loggerClient.Named("seed"))),
		Clock:  clock,
		Logger: loggerClient.Named("links"),
	})
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("failed to open link store: %w", err)
	}

	serviceOpts := []links.ServiceOption{
		links.WithClock(clock),
		links.WithLogger(loggerClient.Named("links")),
	}
	if m != nil {
		serviceOpts = append(serviceOpts, links.WithEvents(m))
	}
	service := links.NewService(linkStore, analyzer, serviceOpts...)

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	roller := scheduler.NewWindowRoller(linkStore, loggerClient, cfg.RollInterval, clock)
	reloader := scheduler.NewSnapshotReloader(linkStore, loggerClient, reloadTrigger)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       clock,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Links:         service,
		Store:         linkStore,
		ShortDomain:   cfg.ShortDomain,
		WindowDays:    cfg.WindowDays,
		EnrichMode:    enrichMode,
		ReloadTrigger: reloadTrigger,
		Metrics:       m,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   httpserver.New(cfg, loggerClient, d),
		kv:       kv,
		roller:   roller,
		reloader: reloader,
	}, nil
}

// openKV returns the snapshot slot for the configured backend. The redis
// client is also returned (nil otherwise) so the enrichment cache can share it.
func openKV(ctx context.Context, cfg *config.Config, log logger.Logger) (store.KV, *goredis.Client, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisstore.NewStore(client), client, nil

	case config.BackendMemory:
		log.Warn("memory backend selected, links are lost on restart")
		return memory.New(), nil, nil

	default:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		return s, nil, nil
	}
}

// newAnalyzer wires Gemini when a key is configured. Without one every link
// gets the URL-derived fallback.
func newAnalyzer(ctx context.Context, cfg *config.Config, log logger.Logger, redisClient *goredis.Client, m *metrics.Metrics) (*enrich.Analyzer, string, error) {
	opts := []enrich.Option{enrich.WithTimeout(cfg.EnrichTimeout)}
	if m != nil {
		opts = append(opts, enrich.WithRecorder(m))
	}

	var model enrich.Model
	mode := "fallback"
	if cfg.EnrichmentActive() {
		gm, err := enrich.NewGeminiModel(ctx, enrich.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		if err != nil {
			return nil, "", err
		}
		model = gm
		mode = "gemini:" + gm.Name()

		if redisClient != nil {
			opts = append(opts, enrich.WithCache(redisstore.NewEnrichmentCache(redisClient, cfg.EnrichCache)))
		}
	} else {
		log.Warn("GEMINI_API_KEY not set or enrichment disabled, using fallback enrichment")
	}

	return enrich.NewAnalyzer(model, log.Named("enrich"), opts...), mode, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting LinkPulse v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.roller.Start(ctx)
	a.logger.Info("window roller started",
		logger.Duration("interval", a.cfg.RollInterval))

	a.reloader.Start(ctx)
	a.logger.Info("snapshot reloader started")

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.roller.Stop()
	a.reloader.Stop()

	if err := a.kv.Close(); err != nil {
		a.logger.Warnf("failed to close %s store: %v", a.kv.Name(), err)
	} else {
		a.logger.Infof("✅ %s store closed cleanly", a.kv.Name())
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ LinkPulse stopped cleanly")
	return nil
}
