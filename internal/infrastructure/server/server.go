package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/Dashboard/backend/internal/api/http"
	"github.com/GriffinCanCode/Dashboard/backend/internal/api/middleware"
	"github.com/GriffinCanCode/Dashboard/backend/internal/api/ws"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/lifecycle"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/menu"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/store"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/widgets"
	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/persistence"
	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/tracing"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	config  *config.Config
	logger  *logging.Logger
	router  *gin.Engine
	http    *http.Server
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer

	store     *store.Store
	storage   *persistence.Guarded
	hub       *ws.Hub
	lifecycle *lifecycle.Manager

	unsubscribe  func()
	stopWatching context.CancelFunc
	watchDone    chan struct{}
	closeOnce    sync.Once
}

// NewServer wires every component and loads the persisted configs
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.FromSettings(cfg.Logging))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing Dashboard Server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("storage", cfg.Storage.Backend),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("dashboard", logger.Component("tracing"))

	registry, err := buildRegistry(cfg.Widgets, logger)
	if err != nil {
		tracer.Close()
		return nil, err
	}

	backend, err := openBackend(cfg.Storage, logger)
	if err != nil {
		tracer.Close()
		return nil, err
	}
	storage := persistence.NewGuarded(backend, resilience.Settings{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		Timeout:          cfg.Breaker.Timeout,
		OnStateChange: func(name string, from, to resilience.State) {
			metrics.BreakerStateChanged(name, from, to)
			logger.Warn("Storage breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}).WithObserver(metrics)

	configStore := store.New(logger.Component("store")).WithMetrics(metrics)

	hub := ws.NewHub(configStore, logger.Component("ws"), cfg.Server.AllowedOrigins...).WithMetrics(metrics)
	unsubscribeHub := configStore.Subscribe(hub.HandleStoreEvent)

	manager := lifecycle.NewManager(configStore, storage, hub, hub, registry, logger.Component("lifecycle")).
		WithMetrics(metrics)
	if err := manager.Bootstrap(ctx, cfg.Storage.DefaultConfig); err != nil {
		unsubscribeHub()
		storage.Close()
		tracer.Close()
		return nil, fmt.Errorf("failed to load configs: %w", err)
	}

	// widget edits outlive the request that made them
	unsubscribeSave := configStore.Subscribe(manager.AutoSave(context.Background()))
	unsubscribe := func() {
		unsubscribeSave()
		unsubscribeHub()
	}

	handlers := apihttp.NewHandlers(
		registry,
		configStore,
		manager,
		menu.NewDispatcher(registry, hub),
		menu.NewEditor(registry, configStore, logger.Component("editor")),
		logger.Component("http"),
	).WithBreaker(storage.Breaker()).WithClients(hub).
		WithModalRouter(func(clientID string) menu.ModalOpener { return hub.ForClient(clientID) })

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.RequestLogger(logger.Component("access")))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins...)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers.Register(router)
	router.GET("/stream", hub.Handle)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/stats", monitoring.StatsHandler(metrics))

	s := &Server{
		config:      cfg,
		logger:      logger,
		router:      router,
		metrics:     metrics,
		tracer:      tracer,
		store:       configStore,
		storage:     storage,
		hub:         hub,
		lifecycle:   manager,
		unsubscribe: unsubscribe,
		http: &http.Server{
			Addr:    cfg.Server.Addr(),
			Handler: router,
		},
	}

	if fb, ok := backend.(*persistence.FileBackend); ok && cfg.Storage.Watch {
		s.watch(fb)
	}

	logger.Info("Server initialized successfully",
		zap.Int("configs", len(configStore.Names())),
		zap.String("active", configStore.ActiveName()),
	)
	return s, nil
}

func buildRegistry(cfg config.WidgetConfig, logger *logging.Logger) (*widgets.Registry, error) {
	registry := widgets.NewRegistry()
	if err := registry.RegisterAll(widgets.Builtins()); err != nil {
		return nil, fmt.Errorf("failed to register builtin widgets: %w", err)
	}

	if cfg.DefinitionsDir != "" {
		n, err := widgets.NewSeeder(registry, cfg.DefinitionsDir, logger.Component("seeder")).Seed()
		if err != nil {
			logger.Warn("Failed to seed widget definitions", zap.Error(err))
		} else {
			logger.Info("Widget definitions seeded", zap.Int("count", n))
		}
	}

	registry.Freeze()
	return registry, nil
}

func openBackend(cfg config.StorageConfig, logger *logging.Logger) (persistence.Backend, error) {
	switch cfg.Backend {
	case config.StorageSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file:" + filepath.Join(cfg.Dir, "configs.db")
		}
		backend, err := persistence.NewSQLiteBackend(dsn, cfg.DefaultConfig, logger.Component("sqlite"))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return backend, nil
	default:
		backend, err := persistence.NewFileBackend(cfg.Dir, cfg.DefaultConfig, logger.Component("files"))
		if err != nil {
			return nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		return backend, nil
	}
}

// watch reloads configs edited on disk by other processes
func (s *Server) watch(fb *persistence.FileBackend) {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopWatching = cancel
	s.watchDone = make(chan struct{})

	watcher := persistence.NewWatcher(fb, s.lifecycle, s.logger.Component("watcher"))
	go func() {
		defer close(s.watchDone)
		if err := watcher.Run(ctx); err != nil {
			s.logger.Error("Config watcher stopped", zap.Error(err))
		}
	}()
	s.logger.Info("Watching config directory", zap.String("dir", fb.Dir()))
}

// Router exposes the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, disconnects stream clients and
// releases storage. It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		s.logger.Info("Shutting down server...")

		if s.stopWatching != nil {
			s.stopWatching()
			<-s.watchDone
		}

		s.hub.Close()
		if shutdownErr := s.http.Shutdown(ctx); shutdownErr != nil {
			s.logger.Error("HTTP shutdown failed", zap.Error(shutdownErr))
			err = fmt.Errorf("failed to shut down http server: %w", shutdownErr)
		}

		s.unsubscribe()
		s.tracer.Close()

		if closeErr := s.storage.Close(); closeErr != nil {
			s.logger.Error("Failed to close storage", zap.Error(closeErr))
			err = errors.Join(err, fmt.Errorf("failed to close storage: %w", closeErr))
		}

		// Sync logger before exit
		_ = s.logger.Sync()
	})
	return err
}
