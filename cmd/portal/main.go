// Command portal runs the hospital site server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cedarcrest-hospital/portal/internal/api"
	"github.com/cedarcrest-hospital/portal/internal/api/handler"
	"github.com/cedarcrest-hospital/portal/internal/api/metrics"
	"github.com/cedarcrest-hospital/portal/internal/core/ports"
	"github.com/cedarcrest-hospital/portal/internal/core/service"
	"github.com/cedarcrest-hospital/portal/internal/infrastructure/backend"
	fsdb "github.com/cedarcrest-hospital/portal/internal/infrastructure/db/firestore"
	"github.com/cedarcrest-hospital/portal/internal/infrastructure/db/memory"
	mongodb "github.com/cedarcrest-hospital/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/cedarcrest-hospital/portal/internal/infrastructure/db/redis"
	"github.com/cedarcrest-hospital/portal/internal/pkg/config"
	"github.com/cedarcrest-hospital/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Hospital Portal API
// @version      1.0
// @description  Site server for the hospital portal: sessions, backend relay, blog and push subscriptions.
// @BasePath     /
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "portal",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := backend.New(cfg.BackendBaseURL, backend.WithHTTPClient(&http.Client{
		Transport: metrics.InstrumentTransport(nil),
	}))
	if err != nil {
		log.Fatal().Err(err).Msg("backend client")
	}

	var checks []handler.Check

	// --- Session store ---
	var sessions ports.SessionStore
	switch cfg.Session.Store {
	case config.StoreRedis:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		defer rdb.Close()
		store := redisdb.NewSessionStore(rdb)
		sessions = store
		checks = append(checks, handler.Check{Name: "redis", Pinger: store})
	default:
		log.Warn().Msg("using in-memory session store; sessions are lost on restart")
		sessions = memory.NewSessionStore()
	}

	// --- Blog repository ---
	var repo ports.BlogRepository
	switch cfg.BlogRepo.Store {
	case config.StoreMongo:
		mc, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("mongodb")
		}
		defer func() { _ = mc.Disconnect(context.Background()) }()
		r := mongodb.NewBlogRepository(db)
		if err := r.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("blog indexes")
		}
		repo = r
		checks = append(checks, handler.Check{Name: "mongodb", Pinger: r})
	default:
		fc, err := fsdb.Connect(ctx, fsdb.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsFile: cfg.Firebase.CredentialsFile,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("firestore")
		}
		defer fc.Close()
		r := fsdb.NewBlogRepository(fc)
		repo = r
		checks = append(checks, handler.Check{Name: "firestore", Pinger: r})
	}

	e := api.NewRouter(api.Deps{
		Config:   cfg,
		Log:      log,
		Backend:  client,
		Sessions: sessions,
		Blog:     service.NewBlogService(repo, logger.Component("blog")),
		Checks:   checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("backend", cfg.BackendBaseURL).
			Str("sessions", cfg.Session.Store).
			Str("blog", cfg.BlogRepo.Store).
			Msg("portal listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
		os.Exit(1)
	}
}
