// NicheProof - payment-gated micro-niche idea generator server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/nicheproof/nicheproof/internal/api"
	"github.com/nicheproof/nicheproof/internal/config"
	"github.com/nicheproof/nicheproof/internal/generate"
	"github.com/nicheproof/nicheproof/internal/middleware"
	"github.com/nicheproof/nicheproof/internal/pass"
	"github.com/nicheproof/nicheproof/internal/passfeed"
	"github.com/nicheproof/nicheproof/internal/payments"
	"github.com/nicheproof/nicheproof/internal/store"
	"github.com/nicheproof/nicheproof/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "pass_duration", cfg.PassDuration)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies.
	ledger, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := ledger.Close(); closeErr != nil {
			slog.Error("Failed to close ledger", "error", closeErr)
		}
	}()

	if err := ledger.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	stripeClient := payments.NewStripeClient(cfg.StripeSecretKey, cfg.StripePriceID, cfg.PublicBaseURL(), cfg.VerifyTimeout)
	verifier := pass.NewVerifier(stripeClient, cfg.StripePriceID, cfg.PassDuration, cfg.PassMemoTTL)

	generator, err := generate.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GenerateTimeout)
	if err != nil {
		slog.Error("Failed to initialize model client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := generator.Close(); closeErr != nil {
			slog.Error("Failed to close model client", "error", closeErr)
		}
	}()
	slog.Info("Model client initialized", "model", cfg.GeminiModel)

	// Initialize handlers.
	apiHandler := api.NewHandler(generator, verifier, stripeClient, ledger)
	healthHandler := api.NewHealthHandler(ledger)
	feedHandler := passfeed.NewHandler(verifier, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	// Public routes.
	healthHandler.RegisterHealth(r)
	apiHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/pass", feedHandler.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // pass feed connections stay open
		IdleTimeout:  120 * time.Second,
	}

	// Start ledger sweeper.
	store.StartSweeper(ctx, ledger, cfg.LedgerRetention, cfg.SweepInterval)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
