package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/vitrina/internal/config"
	"github.com/Simplici0/vitrina/internal/db"
	"github.com/Simplici0/vitrina/internal/logging"
	"github.com/Simplici0/vitrina/internal/migrations"
	"github.com/Simplici0/vitrina/internal/pricing"
	"github.com/Simplici0/vitrina/internal/seed"
	"github.com/Simplici0/vitrina/internal/store"
)

type server struct {
	auth    *authService
	store   *store.Store
	logger  *zap.Logger
	pricing pricing.EngineConfig
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	sessionSecret := cfg.SessionSecret
	if sessionSecret == "" {
		sessionSecret, err = randomSecret()
		if err != nil {
			return fmt.Errorf("generate session secret: %w", err)
		}
		logger.Warn("using a random session secret; sessions end when the server restarts")
	}

	pricingCfg, err := config.LoadPricing(cfg.PricingFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database, logger); err != nil {
		return fmt.Errorf("run database migrations: %w", err)
	}

	stats, err := seed.Run(ctx, database, seed.Config{
		AdminEmail:        cfg.AdminEmail,
		AdminPassword:     cfg.AdminPassword,
		PremiumCategories: pricingCfg.PremiumCategories,
	})
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	logger.Info("seed complete", zap.Int("inserts", stats.Inserts), zap.Int("updates", stats.Updates))

	srv := &server{
		auth:    newAuthService(database, sessionSecret),
		store:   store.New(database),
		logger:  logger,
		pricing: pricingCfg,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr), zap.String("env", cfg.AppEnv))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/pricing/recommend", s.handleRecommend)
		r.Post("/pricing/pretty", s.handlePretty)
		r.Post("/pricing/combo-cost", s.handleComboCost)

		r.Get("/categories", s.handleCategoriesList)
		r.Post("/categories", s.handleCategoryCreate)
		r.Post("/categories/{id}", s.handleCategoryUpdate)

		r.Get("/products", s.handleProductsList)
		r.Post("/products", s.handleProductCreate)
		r.Get("/products/{id}", s.handleProductGet)
		r.Post("/products/{id}", s.handleProductUpdate)
		r.Post("/products/{id}/apply-price", s.handleProductApplyPrice)

		r.Get("/packaging", s.handlePackagingList)
		r.Post("/packaging", s.handlePackagingCreate)
		r.Post("/packaging/{id}", s.handlePackagingUpdate)

		r.Get("/combos", s.handleCombosList)
		r.Post("/combos", s.handleComboCreate)
		r.Get("/combos/{id}", s.handleComboGet)
		r.Post("/combos/{id}/apply-price", s.handleComboApplyPrice)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DB().PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
