// AgentDesk API server. CRUD over the agent, tool, task and team
// collections, guarded by a Supabase session gate, with entity change
// events streamed over WebSocket and published to NATS JetStream.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	adhttp "github.com/agentdeskhq/agentdesk/internal/adapter/http"
	"github.com/agentdeskhq/agentdesk/internal/adapter/memstore"
	adnats "github.com/agentdeskhq/agentdesk/internal/adapter/nats"
	adotel "github.com/agentdeskhq/agentdesk/internal/adapter/otel"
	"github.com/agentdeskhq/agentdesk/internal/adapter/postgres"
	"github.com/agentdeskhq/agentdesk/internal/adapter/ristretto"
	"github.com/agentdeskhq/agentdesk/internal/adapter/supabase"
	"github.com/agentdeskhq/agentdesk/internal/adapter/ws"
	"github.com/agentdeskhq/agentdesk/internal/config"
	"github.com/agentdeskhq/agentdesk/internal/logger"
	"github.com/agentdeskhq/agentdesk/internal/middleware"
	"github.com/agentdeskhq/agentdesk/internal/port/eventqueue"
	"github.com/agentdeskhq/agentdesk/internal/port/store"
	"github.com/agentdeskhq/agentdesk/internal/resilience"
	"github.com/agentdeskhq/agentdesk/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Driver,
		"log_level", cfg.Logging.Level,
	)

	ctx := context.Background()

	// --- Telemetry ---
	otelShutdown, err := adotel.Setup(ctx, cfg.Logging.Service, cfg.OTel.Endpoint)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelShutdown(shutdownCtx)
	}()

	metrics, err := adotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Storage ---
	var entityStore store.Store
	switch cfg.Storage.Driver {
	case "postgres":
		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()
		entityStore = postgres.NewStore(pool)
		slog.Info("postgres connected")
	default:
		entityStore = memstore.New()
		slog.Info("using in-memory store")
	}

	// --- Session verification ---
	sessionCache, err := ristretto.NewSessionCache(cfg.Cache.MaxEntries, cfg.Cache.SessionTTL)
	if err != nil {
		return fmt.Errorf("session cache: %w", err)
	}
	defer sessionCache.Close()

	verifier := supabase.NewClient(cfg.Auth.URL, cfg.Auth.AnonKey)
	verifier.SetBreaker(resilience.New(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))
	verifier.SetCache(sessionCache)

	// --- Eventing ---
	hub := ws.NewHub()

	var queue eventqueue.Queue = eventqueue.Noop{}
	if cfg.NATS.URL != "" {
		natsQueue, err := adnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = natsQueue.Close() }()
		queue = natsQueue
	}

	// --- Services ---
	handlers := adhttp.NewHandlers(
		service.NewAgentService(entityStore, hub, queue, metrics),
		service.NewToolService(entityStore, hub, queue, metrics),
		service.NewTaskService(entityStore, hub, queue, metrics),
		service.NewTeamService(entityStore, hub, queue, metrics),
	)

	// --- HTTP ---
	r := chi.NewRouter()

	r.Use(adhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(adhttp.Logger)
	r.Use(adotel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// The websocket handler blocks for the life of each connection,
	// so it must not sit under the request timeout.
	r.Get("/ws", hub.HandleWS)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))

		r.Get("/health", healthHandler(cfg))
		adhttp.MountRoutes(r, handlers, middleware.SessionGate(verifier, metrics))
	})

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Serve until interrupted, then drain in-flight requests.
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		// Hijacked websocket connections are not drained by Shutdown;
		// close them explicitly first.
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// healthHandler reports process health and which backends are wired.
func healthHandler(cfg *config.Config) http.HandlerFunc {
	type healthStatus struct {
		Status  string `json:"status"`
		Storage string `json:"storage"`
		NATS    bool   `json:"nats"`
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		status := healthStatus{
			Status:  "ok",
			Storage: cfg.Storage.Driver,
			NATS:    cfg.NATS.URL != "",
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}
