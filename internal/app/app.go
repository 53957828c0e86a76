// Package app wires configuration, storage and transports into a runnable
// server.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"screener/config"
	"screener/internal/cache"
	"screener/internal/logger"
	"screener/internal/repository"
	"screener/internal/service"
	"screener/internal/transport/rest"
	"screener/internal/transport/ws"

	"github.com/redis/go-redis/v9"
)

// App holds every long-lived component of the server
type App struct {
	cfg *config.Config
	log logger.Logger

	Store      *repository.Store
	Redis      *redis.Client
	Hub        *ws.Hub
	Recorder   *service.AsyncRecorder
	Reference  *service.ReferenceService
	Assessment *service.AssessmentService
	Auth       *service.AuthService

	server *http.Server
}

// New connects to the configured store and builds the service graph
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to store", map[string]interface{}{"driver": cfg.Store.Driver})

	return Build(ctx, cfg, log, store, connectRedis(ctx, cfg.Redis, log)), nil
}

// Build assembles the services over an already opened store; rdb may be nil
func Build(ctx context.Context, cfg *config.Config, log logger.Logger, store *repository.Store, rdb *redis.Client) *App {
	var (
		refCache      cache.ReferenceCache
		screenerCache cache.ScreenerCache
	)
	if rdb != nil {
		refCache = cache.NewReferenceCache(rdb, cfg.Reference.CacheTTL)
		screenerCache = cache.NewScreenerCache(rdb, cfg.Screener.CacheTTL)
	}

	a := &App{
		cfg:   cfg,
		log:   log,
		Store: store,
		Redis: rdb,
		Hub:   ws.NewHub(log),
		Auth:  service.NewAuthService(cfg.Auth),
	}

	a.Recorder = service.NewAsyncRecorder(store.Responses, cfg.Recorder, log)
	a.Reference = service.NewReferenceService(store.Reference, refCache, log)
	a.Assessment = service.NewAssessmentService(a.Reference, store.Screeners, screenerCache, a.Recorder, cfg.Screener.DefaultID, log)

	// Inject broadcaster (Hub implements service.Broadcaster)
	a.Assessment.SetBroadcaster(a.Hub)

	if _, err := a.Reference.Load(ctx); err != nil {
		log.WithError(err).Warn("Initial reference load failed; scoring returns 503 until a load succeeds", nil)
	}

	a.server = &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: rest.NewRouter(&rest.Container{
			AuthService:       a.Auth,
			AssessmentService: a.Assessment,
			ReferenceService:  a.Reference,
			WSHub:             a.Hub,
			CORS:              cfg.Server.CORS,
			Logger:            log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a
}

// Handler exposes the HTTP handler
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP and refreshes reference data until ctx is cancelled, then
// shuts down gracefully
func (a *App) Run(ctx context.Context) error {
	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	go a.Reference.Run(refreshCtx, a.cfg.Reference.RefreshInterval)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", map[string]interface{}{"addr": a.server.Addr})
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.Close(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.Close(shutdownCtx)
	return err
}

// Close drains the recorder and releases connections
func (a *App) Close(ctx context.Context) {
	a.Hub.Close()

	if err := a.Recorder.Close(ctx); err != nil {
		a.log.WithError(err).Warn("Recorder did not drain cleanly", nil)
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close Redis", nil)
		}
	}
	if a.Store != nil && a.Store.Close != nil {
		if err := a.Store.Close(ctx); err != nil {
			a.log.WithError(err).Warn("Failed to close store", nil)
		}
	}
	a.log.Info("Server exited", nil)
}

// connectRedis returns nil when Redis is disabled or unreachable; the
// service then runs without a cache
func connectRedis(ctx context.Context, cfg config.RedisConfig, log logger.Logger) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("Redis unreachable, running without cache", map[string]interface{}{"addr": cfg.Addr})
		rdb.Close()
		return nil
	}
	log.Info("Connected to Redis", map[string]interface{}{"addr": cfg.Addr})
	return rdb
}
