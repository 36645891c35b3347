package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/learning-portal/internal/api/http"
	"github.com/spec-kit/learning-portal/internal/api/http/handlers"
	"github.com/spec-kit/learning-portal/internal/auth"
	"github.com/spec-kit/learning-portal/internal/config"
	"github.com/spec-kit/learning-portal/internal/events"
	"github.com/spec-kit/learning-portal/internal/observability"
	"github.com/spec-kit/learning-portal/internal/persistence"
	"github.com/spec-kit/learning-portal/internal/repository"
	"github.com/spec-kit/learning-portal/internal/service"
	"github.com/spec-kit/learning-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	userRepo, deptRepo := pg.Repositories()
	deptRepo = repository.NewCachedDepartmentRepository(deptRepo, redis.Client, cfg.Redis.CacheTTL(), logger)

	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger).RegisterHandlers()

	hasher := auth.NewHasher(cfg.Auth.BcryptCost, worker.NewPool(cfg.Auth.HashWorkers))
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes, cfg.App.Name)
	transport := auth.NewTransport(cfg.Auth)
	guard := auth.NewGuard(auth.NewResolver(tokens, userRepo, logger), transport, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Hasher:     hasher,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	userService := service.NewUserService(userRepo, dispatcher, logger)
	departmentService := service.NewDepartmentService(deptRepo)
	dashboardService := service.NewDashboardService(userRepo, deptRepo)

	bootstrapper := service.NewBootstrapper(cfg.Bootstrap, service.BootstrapDependencies{
		UserRepo:       userRepo,
		DepartmentRepo: deptRepo,
		Hasher:         hasher,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	result, err := bootstrapper.Run(ctx)
	if err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}
	logger.Info("bootstrap complete",
		zap.Int("departments_created", result.DepartmentsCreated),
		zap.Bool("admin_created", result.AdminCreated),
	)

	app := httptransport.NewServer(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Routes: httptransport.RouteConfig{
			Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
				handlers.Dependency{Name: "postgres", Pinger: pg, Configured: pg.Configured()},
				handlers.Dependency{Name: "redis", Pinger: redis, Configured: redis.Client != nil},
			),
			Auth:        handlers.NewAuthHandler(authService, transport),
			Users:       handlers.NewUsersHandler(authService, userService),
			Departments: handlers.NewDepartmentsHandler(departmentService, dashboardService),
			Pages:       handlers.NewPagesHandler(cfg.App.Name, departmentService, userService),
			Guard:       guard,
			StaticDir:   cfg.App.StaticDir,
		},
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
