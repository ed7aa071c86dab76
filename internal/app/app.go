package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rewardsengine/internal/catalog"
	"github.com/GlebRadaev/rewardsengine/internal/config"
	"github.com/GlebRadaev/rewardsengine/internal/handlers"
	"github.com/GlebRadaev/rewardsengine/internal/notifier"
	"github.com/GlebRadaev/rewardsengine/internal/pg"
	"github.com/GlebRadaev/rewardsengine/internal/repo"
	"github.com/GlebRadaev/rewardsengine/internal/service"
	"github.com/GlebRadaev/rewardsengine/internal/sweeper"
	pkgauth "github.com/GlebRadaev/rewardsengine/pkg/auth"
	"github.com/GlebRadaev/rewardsengine/pkg/clients"
	"github.com/GlebRadaev/rewardsengine/pkg/clock"
	"github.com/GlebRadaev/rewardsengine/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg     *config.Config
	api     *handlers.Handlers
	srv     *service.Services
	repo    *repo.Repositories
	pool    *pgxpool.Pool
	sweeper *sweeper.Service
	handler http.Handler

	notifier      notifier.Notifier
	closeNotifier func()

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := a.cfg
	if cfg == nil {
		cfg = config.New()
	}

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("can't load catalog: %w", err)
	}
	location, err := time.LoadLocation(cfg.DayTimezone)
	if err != nil {
		return fmt.Errorf("can't load day timezone: %w", err)
	}

	if err = a.initStorage(ctx); err != nil {
		return err
	}
	if err = a.initNotifier(ctx); err != nil {
		return err
	}

	jwtService := pkgauth.NewJWTService(cfg.JWTSecret)
	a.srv = service.New(a.repo, service.Deps{
		Catalog:     cat,
		Clock:       clock.System{},
		LockTimeout: cfg.LockTimeout,
		Location:    location,
		Notifier:    a.notifier,
		JWT:         jwtService,
	})
	if err = a.srv.Engine.SeedCatalog(ctx); err != nil {
		zap.L().Error("catalog seeding failed", zap.Error(err))
		return fmt.Errorf("can't seed catalog: %w", err)
	}
	a.api = handlers.New(a.srv, jwtService)
	a.sweeper = sweeper.New(a.srv.Engine, cfg.SweepInterval)

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}
	a.startSweeper(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully",
		zap.String("storage", cfg.Storage),
		zap.Int("activities", len(cat.Activities)),
		zap.Int("rewards", len(cat.Rewards)))
	return nil
}

func (a *Application) initStorage(ctx context.Context) error {
	if a.cfg.Storage == config.StorageMemory {
		a.repo = repo.NewMemory()
		zap.L().Warn("using in-memory storage, data is lost on restart")
		return nil
	}

	pool, err := getPgxpool(ctx, a.cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(ctx, pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		pool.Close()
		return fmt.Errorf("can't run migrations: %w", err)
	}
	a.pool = pool
	a.repo = repo.New(pg.New(pool), pg.NewTXManager(pool))
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) sink() notifier.Sink {
	if a.cfg.NotifyWebhookURL != "" {
		return notifier.NewWebhookSink(a.cfg.NotifyWebhookURL, clients.NewHTTPClient())
	}
	return notifier.LogSink{}
}

// initNotifier picks the durable River queue when configured, otherwise an
// in-process dispatcher that drops events it cannot queue.
func (a *Application) initNotifier(ctx context.Context) error {
	sink := a.sink()
	if !a.cfg.NotifyDurable {
		dispatcher := notifier.NewDispatcher(sink, clock.System{}, a.cfg.NotifyWorkers)
		a.notifier = dispatcher
		a.closeNotifier = dispatcher.Close
		return nil
	}

	migrator, err := rivermigrate.New(riverpgxv5.New(a.pool), nil)
	if err != nil {
		return fmt.Errorf("can't create river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		zap.L().Error("river migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run river migrations: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, notifier.NewEventWorker(sink))
	client, err := river.NewClient[pgx.Tx](riverpgxv5.New(a.pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: max(a.cfg.NotifyWorkers, 1)},
		},
		Workers: workers,
	})
	if err != nil {
		return fmt.Errorf("can't create river client: %w", err)
	}
	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("can't start river client: %w", err)
	}

	a.notifier = notifier.NewQueue(client, clock.System{})
	a.closeNotifier = func() {
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Stop(sCtx); err != nil {
			zap.L().Error("river client stop failed", zap.Error(err))
		}
	}
	zap.L().Info("durable notifications enabled", zap.String("sink", sink.Name()))
	return nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	a.handler = cors.New(cors.Options{
		AllowedOrigins: a.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Authorization"},
	}).Handler(router)

	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Error("http server shutdown failed", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) startSweeper(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.sweeper.Run(ctx)
	}()
}

// Wait blocks until ctx is done, then drains the HTTP server, the sweeper
// and pending notifications before closing storage.
func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	if a.closeNotifier != nil {
		a.closeNotifier()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	a.ready = false

	return appErr
}
