// Package server boots the application: configuration, database, cache,
// storage, log shipping, middleware stack, routes and the HTTP listener.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zmaxim/skystore/app/jobs"
	"github.com/zmaxim/skystore/app/routes"
	"github.com/zmaxim/skystore/config"
	"github.com/zmaxim/skystore/pkg/cache"
	"github.com/zmaxim/skystore/pkg/database"
	"github.com/zmaxim/skystore/pkg/logger"
	"github.com/zmaxim/skystore/pkg/metrics"
	"github.com/zmaxim/skystore/pkg/middleware"
	"github.com/zmaxim/skystore/pkg/queue"
	"github.com/zmaxim/skystore/pkg/reqid"
	"github.com/zmaxim/skystore/pkg/router"
	"github.com/zmaxim/skystore/pkg/storage"
)

// Start boots every subsystem and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.LogMongoURI(); uri != "" {
		if h, err := logger.EnableMongo(uri, config.LogMongoDatabase(), config.LogMongoCollection()); err != nil {
			logger.Warn("server: mongo log shipping disabled", "error", err)
		} else {
			defer h.Close()
		}
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("server: running without redis cache", "error", err)
	}
	storage.Connect()

	// Background jobs: Redis-backed when available, in-memory otherwise.
	jobs.Register()
	queue.UseDB(db)
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	queue.StartWorkers(workerCtx, 2)

	r := router.New()
	r.Use(
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
		metrics.Middleware(),
	)
	routes.Register(r, db)

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("server: shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
