package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/ecyclehub/ecyclehub/internal/api/http"
	"github.com/ecyclehub/ecyclehub/internal/api/http/handlers"
	"github.com/ecyclehub/ecyclehub/internal/auth"
	"github.com/ecyclehub/ecyclehub/internal/config"
	"github.com/ecyclehub/ecyclehub/internal/events"
	"github.com/ecyclehub/ecyclehub/internal/observability"
	"github.com/ecyclehub/ecyclehub/internal/persistence"
	"github.com/ecyclehub/ecyclehub/internal/repository"
	"github.com/ecyclehub/ecyclehub/internal/repository/memory"
	"github.com/ecyclehub/ecyclehub/internal/reward"
	"github.com/ecyclehub/ecyclehub/internal/service"
	"github.com/ecyclehub/ecyclehub/internal/worker"
)

// backends are the stores chosen at start-up.
type backends struct {
	tx            repository.TxManager
	users         repository.UserRepository
	registrations repository.RegistrationRepository
	community     repository.CommunityRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		if err := persistence.ApplyIdentityPolicy(ctx, pg.PoolHandle(), cfg.Identity, logger); err != nil {
			logger.Fatal("failed to apply identity policy", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	stores := newBackends(pg, cfg)

	calculator, err := reward.NewCalculator(reward.Policy{
		Version:   cfg.Reward.Version,
		RatePerKg: cfg.Reward.RatePerKg,
		Currency:  cfg.Reward.Currency,
	})
	if err != nil {
		logger.Fatal("invalid reward policy", zap.Error(err))
	}
	logger.Info("reward policy loaded",
		zap.String("version", cfg.Reward.Version),
		zap.String("rate_per_kg", cfg.Reward.RatePerKg.String()),
		zap.String("currency", cfg.Reward.Currency))

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	var revocations auth.RevocationStore = auth.NewMemoryRevocationStore()
	if redis.Enabled() {
		revocations = auth.NewRedisRevocationStore(redis.Client)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(logger, cfg.Notification)
	notifier := worker.NewNotificationWorker(notifications, logger, 0)
	notifier.Subscribe(dispatcher)
	notifier.Start(ctx)

	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		Tx:         stores.tx,
		Hasher:     hasher,
		Tokens:     tokens,
		Calculator: calculator,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	authService, err := service.NewAuthService(service.AuthDependencies{
		UserRepo:         stores.users,
		RegistrationRepo: stores.registrations,
		Hasher:           hasher,
		Tokens:           tokens,
		Revocations:      revocations,
		Logger:           logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	profileService := service.NewProfileService(stores.users, stores.registrations)
	communityService := service.NewCommunityService(stores.community, calculator)

	var limiterStorage fiber.Storage
	if storage := persistence.NewLimiterStorage(redis); storage != nil {
		limiterStorage = storage
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.HTTP, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Accounts:       handlers.NewAccountsHandler(registrationService, authService, cfg.Reward.Currency),
		Registrations:  handlers.NewRegistrationsHandler(registrationService),
		Profile:        handlers.NewProfileHandler(profileService, cfg.Reward.Currency),
		Community:      handlers.NewCommunityHandler(communityService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, stores.users, revocations),
		AuthLimiter:    httptransport.NewAuthLimiter(cfg.HTTP.AuthRateLimitPerMin, limiterStorage),
		Metrics:        observability.MetricsHandler(prometheus.DefaultGatherer),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	notifier.Wait()
}

// newBackends returns Postgres stores when a pool is configured and
// in-memory stores otherwise.
func newBackends(pg *persistence.Postgres, cfg *config.Config) backends {
	if pool := pg.PoolHandle(); pool != nil {
		return backends{
			tx:            repository.NewPostgresTxManager(pool, cfg.Postgres.TxTimeout()),
			users:         repository.NewUserRepository(pool),
			registrations: repository.NewRegistrationRepository(pool),
			community:     repository.NewCommunityRepository(pool),
		}
	}

	store := memory.New(memory.WithUniqueContact(cfg.Identity.UniqueContact))
	return backends{
		tx:            store,
		users:         store.Users(),
		registrations: store.Registrations(),
		community:     store.Community(),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
