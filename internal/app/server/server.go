package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dailypay/internal/domain/ledger"
	"dailypay/internal/domain/report"
	"dailypay/internal/domain/session"
	"dailypay/internal/platform/config"
	"dailypay/internal/platform/db"
	"dailypay/internal/platform/metrics"
	"dailypay/internal/transport/http/api"
	authhandler "dailypay/internal/transport/http/handlers/auth"
	ledgerhandler "dailypay/internal/transport/http/handlers/ledger"
	sessionhandler "dailypay/internal/transport/http/handlers/session"
	"dailypay/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Ledger  ledger.Store
	Engine  *session.Engine
	Metrics *metrics.Collector
	Router  http.Handler
}

func Run() {
	cfg, err := config.FromEnvironment()
	if err != nil {
		slog.Error("loading configuration", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(NewLogger(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("payout server listening", "addr", cfg.Addr, "ledger", cfg.LedgerBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// OpenLedger builds the configured ledger backend. The returned pool is nil
// for the file backend.
func OpenLedger(ctx context.Context, cfg config.Config) (ledger.Store, *pgxpool.Pool, error) {
	if err := cfg.ValidateLedger(); err != nil {
		return nil, nil, err
	}
	if cfg.LedgerBackend == config.LedgerBackendFile {
		return ledger.NewFileStore(cfg.LedgerPath), nil, nil
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect failed: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, db.Migrations); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrations failed: %w", err)
		}
	}
	return ledger.NewPostgresStore(pool), pool, nil
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	store, pool, err := OpenLedger(ctx, cfg)
	if err != nil {
		return nil, err
	}

	collector := metrics.New()
	logger := slog.Default()
	engine := session.NewEngine(store,
		session.WithLogger(logger),
		session.WithMetrics(collector),
		session.WithOwners(report.Owners{A: cfg.OwnerAName, B: cfg.OwnerBName}),
		session.WithExports(true),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, collector))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxUploadBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		if _, err := store.Load(ctx); err != nil {
			http.Error(w, "ledger not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(cfg.JWTSecret, cfg.OperatorID, cfg.OperatorPasswordHash, cfg.TokenTTL)
		r.Post("/auth/token", authHandler.HandleToken)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireOperator(cfg.OperatorID))
			sessionhandler.NewHandler(engine, cfg.MaxUploadBytes).RegisterRoutes(r)
			ledgerhandler.NewHandler(store).RegisterRoutes(r)
		})
	})

	return &App{
		Config:  cfg,
		DB:      pool,
		Ledger:  store,
		Engine:  engine,
		Metrics: collector,
		Router:  router,
	}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
