package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/clockwise/attendance-tracker/internal/api"
	"github.com/clockwise/attendance-tracker/internal/api/handler"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
	"github.com/clockwise/attendance-tracker/internal/core/service"
	"github.com/clockwise/attendance-tracker/internal/infrastructure/db/memory"
	mongostore "github.com/clockwise/attendance-tracker/internal/infrastructure/db/mongo"
	redisstore "github.com/clockwise/attendance-tracker/internal/infrastructure/db/redis"
	"github.com/clockwise/attendance-tracker/internal/infrastructure/queue"
	"github.com/clockwise/attendance-tracker/internal/pkg/config"
	"github.com/clockwise/attendance-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "attendance-tracker",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		log.Warn().Msg("JWT_SECRET not set, using an insecure development secret")
		cfg.JWTSecret = "dev-secret"
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}()

	db := service.NewDB(store, service.DBConfig{
		Location:      loc,
		BcryptCost:    cfg.Admin.BcryptCost,
		AdminUsername: cfg.Admin.Username,
		AdminPassword: cfg.Admin.Password,
	}, logger.Component("db"))
	if err := db.Initialize(ctx); err != nil {
		return err
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Queue.Workers, db, logger.Component("queue"))
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	e := api.NewRouter(api.Dependencies{
		DB:           db,
		Auth:         service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth")),
		Reports:      service.NewReportService(db, loc),
		Marks:        dispatcher,
		Probes:       map[string]handler.Pinger{cfg.Store.Backend: store},
		AllowOrigins: cfg.CORSOrigins,
		Log:          logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Backend).Str("timezone", loc.String()).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server exited gracefully")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (ports.KVStore, error) {
	log := logger.Component("store")

	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("connected to redis")
		return redisstore.NewStore(client, cfg.Store.Namespace), nil

	case config.BackendMongo:
		db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return mongostore.NewStore(db, cfg.Store.Namespace), nil

	default:
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return memory.NewStore(), nil
	}
}

