package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/membership-hub/membership-service/internal/api/http"
	"github.com/membership-hub/membership-service/internal/api/http/handlers"
	"github.com/membership-hub/membership-service/internal/auth"
	"github.com/membership-hub/membership-service/internal/config"
	"github.com/membership-hub/membership-service/internal/notification"
	"github.com/membership-hub/membership-service/internal/observability"
	"github.com/membership-hub/membership-service/internal/persistence"
	"github.com/membership-hub/membership-service/internal/repository"
	"github.com/membership-hub/membership-service/internal/service"
	"github.com/membership-hub/membership-service/internal/worker"
)

const (
	migrationsDir   = "migrations"
	shutdownTimeout = 15 * time.Second
)

// stores holds the repositories for the selected driver and the resources to
// release on shutdown.
type stores struct {
	staff   repository.StaffRepository
	members repository.MemberRepository
	checks  map[string]handlers.Pinger
	closers []func(context.Context)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	var journal worker.RunJournal
	if redis != nil {
		st.checks["redis"] = redis
		journal = worker.NewRedisJournal(redis.Client)
	}

	notifier, err := notification.New(cfg.Notification, logger)
	if err != nil {
		logger.Fatal("failed to init notifier", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.SessionTTL, cfg.Auth.ResetTokenTTL)
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		StaffRepo: st.staff,
		Hasher:    auth.NewHasher(cfg.Auth.BcryptCost),
		Tokens:    tokens,
		Notifier:  notifier,
		Logger:    logger,
	})
	memberService := service.NewMemberService(st.members, notifier, logger)
	birthdayService := service.NewBirthdayService(st.members, st.staff, notifier, logger, time.Now, cfg.Notification.OrgName)

	var scheduler *worker.BirthdayScheduler
	if cfg.Scheduler.Enabled {
		scheduler, err = worker.NewBirthdayScheduler(cfg.Scheduler.BirthdaySpec, birthdayService, journal, logger)
		if err != nil {
			logger.Fatal("failed to schedule birthday job", zap.Error(err))
		}
		scheduler.Start()
	}

	health := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, st.checks)
	if journal != nil {
		health.WithJobs(journal, worker.BirthdayJobName)
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ErrorHandler:          httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         health,
		Auth:           handlers.NewAuthHandler(authService),
		Staff:          handlers.NewStaffHandler(authService),
		Members:        handlers.NewMemberHandler(memberService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			logger.Warn("scheduler shutdown", zap.Error(err))
		}
	}
	redis.Close()
	for _, closeFn := range st.closers {
		closeFn(shutdownCtx)
	}
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stores, error) {
	st := &stores{checks: map[string]handlers.Pinger{}}

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrationsDir, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		pool := pg.PoolHandle()
		st.staff = repository.NewStaffRepository(pool)
		st.members = repository.NewMemberRepository(pool)
		st.checks["postgres"] = pg
		st.closers = append(st.closers, func(context.Context) { pg.Close() })
	case config.StoreDriverMongo:
		m, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		st.staff = repository.NewMongoStaffRepository(m.Database)
		st.members = repository.NewMongoMemberRepository(m.Database)
		st.checks["mongo"] = m
		st.closers = append(st.closers, m.Close)
	default:
		logger.Warn("using in-memory store; data is lost on restart")
		st.staff = repository.NewMemoryStaffRepository()
		st.members = repository.NewMemoryMemberRepository()
	}
	return st, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
