package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/crucial707/userapi/internal/auth"
	"github.com/crucial707/userapi/internal/config"
	"github.com/crucial707/userapi/internal/handlers"
	"github.com/crucial707/userapi/internal/metrics"
	"github.com/crucial707/userapi/internal/middleware"
	"github.com/crucial707/userapi/internal/repo"
	"github.com/crucial707/userapi/internal/scheduler"
	"github.com/crucial707/userapi/internal/users"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// app owns the process-wide state: one store, one service, one limiter.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	repo    *repo.UserRepo
	tokens  *auth.TokenIssuer
	service *users.Service
	limiter *middleware.IPRateLimiter
}

func newApp(cfg config.Config, logger *slog.Logger) *app {
	store := repo.NewUserRepo()
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTExpiresIn)
	return &app{
		cfg:     cfg,
		logger:  logger,
		repo:    store,
		tokens:  tokens,
		service: users.NewService(store, tokens, cfg.BcryptCost, logger),
		limiter: middleware.NewIPRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow),
	}
}

func (a *app) router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if a.cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.RequestLog(a.logger))
	r.Use(middleware.SecurityHeaders(a.cfg.TLSEnabled()))
	r.Use(middleware.CORS(a.cfg.CORSAllowedOrigins))
	r.Use(chimw.Compress(5))
	r.Use(a.limiter.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	userH := &handlers.UserHandler{Service: a.service}
	authH := &handlers.AuthHandler{Service: a.service}

	r.Get("/health", handlers.Health)
	// Compress already gzips responses.
	r.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{DisableCompression: true}))

	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
		r.Get("/", userH.ListUsers)
		r.Post("/", userH.CreateUser)
		r.Post("/login", authH.Login)
		r.With(middleware.JWT(a.tokens)).Get("/me", authH.Me)
	})

	return r
}

// scheduleMaintenance registers the background jobs that keep the limiter
// map bounded and the stored-users gauge fresh.
func (a *app) scheduleMaintenance(s *scheduler.Scheduler) error {
	if err := s.Add("ratelimit-sweep", "@every 1m", func() {
		if n := a.limiter.Sweep(); n > 0 {
			a.logger.Debug("rate limiter swept", "removed", n, "remaining", a.limiter.Len())
		}
	}); err != nil {
		return err
	}
	return s.Add("users-gauge", "@every 30s", func() {
		metrics.SetUsersStored(a.repo.Count(context.Background()))
	})
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	if cfg.JWTSecretDefaulted {
		logger.Warn("JWT_SECRET not set, signing tokens with the insecure development secret")
	}
	for _, w := range cfg.Warnings {
		logger.Warn("config: " + w)
	}

	a := newApp(cfg, logger)

	sched := scheduler.New(logger)
	if err := a.scheduleMaintenance(sched); err != nil {
		return err
	}
	sched.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env, "tls", cfg.TLSEnabled())
		if cfg.TLSEnabled() {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
