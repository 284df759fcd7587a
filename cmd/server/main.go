package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/todo/api/handler"
	"github.com/fastygo/todo/internal/config"
	"github.com/fastygo/todo/internal/infrastructure/buffer"
	"github.com/fastygo/todo/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/todo/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/todo/internal/infrastructure/redis"
	sqliteInfra "github.com/fastygo/todo/internal/infrastructure/sqlite"
	"github.com/fastygo/todo/internal/middleware"
	"github.com/fastygo/todo/internal/router"
	"github.com/fastygo/todo/internal/services"
	"github.com/fastygo/todo/internal/services/lifecycle"
	"github.com/fastygo/todo/pkg/httpcontext"
	"github.com/fastygo/todo/pkg/logger"
	"github.com/fastygo/todo/pkg/password"
	"github.com/fastygo/todo/pkg/token"
	"github.com/fastygo/todo/repository"
	pgRepo "github.com/fastygo/todo/repository/postgres"
	redisRepo "github.com/fastygo/todo/repository/redis"
	sqliteRepo "github.com/fastygo/todo/repository/sqlite"
	authUC "github.com/fastygo/todo/usecase/auth"
	listUC "github.com/fastygo/todo/usecase/list"
	profileUC "github.com/fastygo/todo/usecase/profile"
	taskUC "github.com/fastygo/todo/usecase/task"
)

type stores struct {
	users repository.UserRepository
	lists repository.ListRepository
	tasks repository.TaskRepository
	tx    repository.Transactor
	ping  monitor.PingFunc
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Development: cfg.Environment == "development",
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.Context(context.Background())
	defer stop()

	db, err := openStores(appCtx, cfg, manager, zapLogger)
	if err != nil {
		zapLogger.Fatal("database unavailable", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("invalid redis configuration", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "")
	if err != nil {
		zapLogger.Fatal("failed to open revocation buffer", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(db.ping, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	}, bufferStore, cfg.Buffer.SyncInterval/3, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	revocations, err := services.NewBufferProcessor(
		bufferStore,
		mon,
		redisRepo.NewRevocationRepository(redisClient),
		zapLogger,
		services.ProcessorConfig{
			Interval:      cfg.Buffer.SyncInterval,
			PurgeSchedule: cfg.Buffer.PurgeSchedule,
			BatchSize:     cfg.Buffer.BatchSize,
			MaxRetries:    cfg.Buffer.MaxRetry,
		},
	)
	if err != nil {
		zapLogger.Fatal("failed to configure buffer processor", zap.Error(err))
	}
	revocations.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		revocations.Stop(ctx)
		return nil
	})

	issuer, err := token.NewIssuer(token.Config{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	})
	if err != nil {
		zapLogger.Fatal("invalid token configuration", zap.Error(err))
	}
	hasher, err := password.NewHasher(cfg.Security.BcryptCost)
	if err != nil {
		zapLogger.Fatal("invalid password hashing configuration", zap.Error(err))
	}

	authUseCase := authUC.New(db.users, db.tx, issuer, hasher, revocations, zapLogger)
	profileUseCase := profileUC.New(db.users, db.tx, hasher, zapLogger)
	listUseCase := listUC.New(db.lists, db.tasks, db.tx, zapLogger)
	taskUseCase := taskUC.New(db.lists, db.tasks, db.tx, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile: apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		List:    apiHandler.NewListHandler(listUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, middleware.JWTAuth(authUseCase, ctxAdapter, zapLogger), router.Options{
		EnableMetrics: cfg.HTTP.EnableMetrics,
		EnablePprof:   cfg.HTTP.EnablePprof,
	})

	server := &fasthttp.Server{
		Handler: middleware.Chain(r.Handler,
			middleware.AccessLog(zapLogger),
			middleware.Metrics,
			middleware.SecurityHeaders,
			middleware.CORS(cfg.Security.AllowedOrigins),
		),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("driver", cfg.Database.Driver),
			zap.String("env", cfg.Environment))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server stopped listening", zap.Error(err))
			stop()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()
	zapLogger.Info("shutdown requested")

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openStores connects the configured database and builds its repositories.
func openStores(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, logger *zap.Logger) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqliteInfra.Open(ctx, cfg.Database.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		manager.Register("sqlite", func(ctx context.Context) error {
			return db.Close()
		})
		return &stores{
			users: sqliteRepo.NewUserRepository(db),
			lists: sqliteRepo.NewListRepository(db),
			tasks: sqliteRepo.NewTaskRepository(db),
			tx:    sqliteRepo.NewTransactor(db),
			ping:  db.PingContext,
		}, nil
	default:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, err
		}
		pool, err := pgInfra.NewPool(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		return &stores{
			users: pgRepo.NewUserRepository(pool),
			lists: pgRepo.NewListRepository(pool),
			tasks: pgRepo.NewTaskRepository(pool),
			tx:    pgRepo.NewTransactor(pool),
			ping:  pool.Ping,
		}, nil
	}
}
