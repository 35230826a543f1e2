package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/config"
	pgInfra "github.com/fastygo/todo/internal/infrastructure/postgres"
	sqliteInfra "github.com/fastygo/todo/internal/infrastructure/sqlite"
	"github.com/fastygo/todo/internal/services"
	"github.com/fastygo/todo/pkg/logger"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/repository/postgres"
	"github.com/fastygo/todo/repository/sqlite"
)

func main() {
	plan := services.DefaultSeedPlan()
	flag.StringVar(&plan.DemoEmail, "email", plan.DemoEmail, "demo account email")
	flag.IntVar(&plan.ExtraUsers, "users", plan.ExtraUsers, "additional accounts to create")
	flag.Uint64Var(&plan.Seed, "seed", plan.Seed, "random seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	zapLogger, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	var (
		users repository.UserRepository
		todos repository.TodoRepository
	)
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqliteInfra.Open(ctx, cfg.Database.SQLitePath, zapLogger)
		if err != nil {
			zapLogger.Fatal("sqlite open failed", zap.Error(err))
		}
		defer db.Close()
		users, todos = sqlite.NewUserRepository(db), sqlite.NewTodoRepository(db)
	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		defer pool.Close()
		users, todos = postgres.NewUserRepository(pool), postgres.NewTodoRepository(pool)
	}

	if _, err := services.NewSeeder(users, todos, zapLogger).Seed(ctx, plan); err != nil {
		zapLogger.Fatal("seed failed", zap.Error(err))
	}
}
