package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/showcase/internal/config"
	"github.com/MrSnakeDoc/showcase/internal/domain"
	"github.com/MrSnakeDoc/showcase/internal/format"
	"github.com/MrSnakeDoc/showcase/internal/httpserver"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/inbox"
	"github.com/MrSnakeDoc/showcase/internal/index"
	"github.com/MrSnakeDoc/showcase/internal/kv"
	"github.com/MrSnakeDoc/showcase/internal/logger"
	"github.com/MrSnakeDoc/showcase/internal/metrics"
	"github.com/MrSnakeDoc/showcase/internal/redis"
	"github.com/MrSnakeDoc/showcase/internal/scheduler"
	"github.com/MrSnakeDoc/showcase/internal/sources/mailbox"
	redisstore "github.com/MrSnakeDoc/showcase/internal/store/redis"
	"github.com/MrSnakeDoc/showcase/internal/utils"
	"github.com/MrSnakeDoc/showcase/internal/version"
)

const metricsNamespace = "showcase"

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	reloader    *scheduler.MailboxReloader
	janitor     *scheduler.Janitor
}

// New connects to Redis, seeds the catalog from the last snapshot and wires
// the HTTP server with its background workers
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	lang, err := cfg.Language()
	if err != nil {
		return nil, err
	}

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.Connect(ctx, redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	loggerClient.Info("Redis initialized successfully")

	memIndex := index.NewMemoryIndex()
	store := redisstore.NewStore(redisClient, cfg.SessionTTL)
	collector := metrics.NewCollector(metricsNamespace)

	sessions := inbox.NewRegistry(memIndex,
		func(sid string) kv.Store { return store.Session(sid) },
		inbox.Options{
			Logger:   loggerClient,
			Pipeline: domain.NewPipeline(lang),
			PageSize: cfg.PageSize,
		})
	collector.TrackSessions(metricsNamespace, sessions.Len)

	// Serve the last snapshot while the file loads
	syncer := scheduler.NewRedisSyncer(store, memIndex, loggerClient)
	if err := syncer.Sync(ctx); err != nil {
		loggerClient.Warn("failed to sync from redis on startup, will load from mailbox file",
			logger.Error(err))
	}

	reloadTrigger := make(chan struct{}, 1)
	source := mailbox.NewSource(mailbox.NewLoader(cfg.MailboxFile), mailbox.NewMapper(loc))

	reloader := scheduler.NewMailboxReloader(
		source,
		store,
		memIndex,
		sessions,
		collector,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	janitor := scheduler.NewJanitor(
		sessions,
		collector,
		loggerClient,
		cfg.SweepInterval,
		cfg.SessionIdleTTL,
	)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		SecureCookie:  cfg.TrustProxy, // behind a proxy the public side is TLS
		RateBurst:     cfg.RateBurst,
		RatePerMin:    cfg.RatePerMin,
		MailboxFile:   cfg.MailboxFile,
		Location:      loc,
		RedisClient:   redisClient,
		Snapshot:      store,
		MemoryIndex:   memIndex,
		Sessions:      sessions,
		Formats:       format.DefaultCatalog(),
		Metrics:       collector,
		ReloadTrigger: reloadTrigger,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg.ListenPort, loggerClient, d),
		redisClient: redisClient,
		memIndex:    memIndex,
		reloader:    reloader,
		janitor:     janitor,
	}, nil
}

// Run serves until SIGINT/SIGTERM, ctx cancellation or the first fatal worker error
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting Showcase %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.Get().String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("mailbox reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
		if err := a.reloader.Run(gctx); err != nil {
			return fmt.Errorf("mailbox reloader: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.logger.Info("janitor started",
			logger.Duration("interval", a.cfg.SweepInterval),
			logger.Duration("idle_ttl", a.cfg.SessionIdleTTL))
		return a.janitor.Run(gctx)
	})

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")

		a.reloader.Stop()
		a.janitor.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	err := g.Wait()

	utils.CloseLogged(a.redisClient, "redis", a.logger)

	if err != nil {
		return err
	}
	a.logger.Info("✅ Showcase stopped cleanly")
	return nil
}
