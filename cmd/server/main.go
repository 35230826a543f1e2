package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/todo/api/handler"
	"github.com/fastygo/todo/api/render"
	"github.com/fastygo/todo/internal/config"
	boltInfra "github.com/fastygo/todo/internal/infrastructure/bolt"
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
	"github.com/fastygo/todo/repository"
	boltRepo "github.com/fastygo/todo/repository/bolt"
	"github.com/fastygo/todo/repository/postgres"
	redisRepo "github.com/fastygo/todo/repository/redis"
	"github.com/fastygo/todo/repository/sqlite"
	authUC "github.com/fastygo/todo/usecase/auth"
	profileUC "github.com/fastygo/todo/usecase/profile"
	todoUC "github.com/fastygo/todo/usecase/todo"
)

type stores struct {
	todos    repository.TodoRepository
	users    repository.UserRepository
	sessions repository.SessionRepository
	probes   []monitor.Probe
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		File:       cfg.Logger.File,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var st stores
	openDatabase(appCtx, cfg, manager, zapLogger, &st)
	openSessions(appCtx, cfg, manager, zapLogger, &st)

	mon := monitor.New(cfg.Monitor.Interval, zapLogger, st.probes...)
	if err := mon.Start(); err != nil {
		zapLogger.Fatal("monitor start failed", zap.Error(err))
	}
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop(ctx)
		return nil
	})

	authUseCase := authUC.New(st.users, st.sessions, authUC.Config{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		DevLogin: cfg.Auth.DevLogin,
	}, zapLogger)
	if cfg.Auth.DevLogin {
		zapLogger.Warn("email-only login is enabled", zap.String("environment", cfg.Environment))
	}
	profileUseCase := profileUC.New(st.users, zapLogger)
	todoUseCase := todoUC.New(st.todos, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	deps := apiHandler.Deps{
		Adapter:   ctxAdapter,
		Logger:    zapLogger,
		Renderer:  render.NewPageRenderer(cfg.AppName, cfg.HTTP.AssetVersion),
		LoginPath: cfg.HTTP.LoginPath,
	}
	cookie := apiHandler.SessionCookie{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
		TTL:    cfg.Session.TTL,
	}

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, cookie, cfg.JWT.TTL, deps),
		Profile: apiHandler.NewProfileHandler(profileUseCase, cfg.Session.CookieName, deps),
		Todo:    apiHandler.NewTodoHandler(todoUseCase, deps),
		Health:  apiHandler.NewHealthHandler(mon, deps),
	}

	requireUser := middleware.RequireUser(authUseCase, cfg.Session.CookieName, cfg.HTTP.LoginPath, ctxAdapter, zapLogger)
	r := router.New(handlers, requireUser, router.Options{DevLogin: cfg.Auth.DevLogin})

	server := &fasthttp.Server{
		Handler:            middleware.AccessLog(zapLogger)(middleware.MethodOverride(r.Handler)),
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		Concurrency:        cfg.HTTP.MaxConn,
		Name:               cfg.AppName,
		MaxRequestBodySize: 1 << 20,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("db_driver", cfg.Database.Driver),
			zap.String("session_driver", cfg.Session.Driver))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func openDatabase(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger, st *stores) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqliteInfra.Open(ctx, cfg.Database.SQLitePath, zapLogger)
		if err != nil {
			zapLogger.Fatal("sqlite open failed", zap.Error(err))
		}
		manager.Register("sqlite", func(context.Context) error { return db.Close() })

		st.todos = sqlite.NewTodoRepository(db)
		st.users = sqlite.NewUserRepository(db)
		st.probes = append(st.probes, monitor.Probe{Name: "sqlite", Check: db.PingContext})

	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(context.Context) error {
			pool.Close()
			return nil
		})

		st.todos = postgres.NewTodoRepository(pool)
		st.users = postgres.NewUserRepository(pool)
		st.probes = append(st.probes, monitor.Probe{Name: "postgresql", Check: pool.Ping})
	}
}

func openSessions(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger, st *stores) {
	switch cfg.Session.Driver {
	case config.SessionDriverBolt:
		db, err := boltInfra.Open(cfg.Session.BoltPath, boltRepo.SessionBucket)
		if err != nil {
			zapLogger.Fatal("failed to open session store", zap.Error(err))
		}
		manager.Register("bolt", func(context.Context) error { return db.Close() })

		repo := boltRepo.NewSessionRepository(db, cfg.Session.TTL)
		st.sessions = repo

		sweeper, err := services.NewSessionSweeper(repo, cfg.Session.SweepInterval, zapLogger)
		if err != nil {
			zapLogger.Fatal("session sweeper setup failed", zap.Error(err))
		}
		sweeper.Start()
		manager.Register("session_sweeper", func(ctx context.Context) error {
			sweeper.Stop(ctx)
			return nil
		})

	default:
		client, err := redisInfra.NewClient(ctx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(context.Context) error { return client.Close() })

		st.sessions = redisRepo.NewSessionRepository(client, cfg.Session.TTL)
		st.probes = append(st.probes, monitor.Probe{Name: "redis", Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}})
	}
}
