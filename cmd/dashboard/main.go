package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/app"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/appconf"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/clock"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/logging"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/metrics"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/transport"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/viewapi"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/webui"
)

// ParseAPIKeys splits the comma-separated API_KEYS value, dropping blanks.
func ParseAPIKeys(raw string) []string {
	keys := []string{}
	for _, key := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(key)
		if trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func loadConfig() appconf.Config {
	var (
		envFlag   = flag.String("env", envOr("APP_ENV", "development"), "runtime environment (development, test, production)")
		port      = flag.Int("port", 4000, "HTTP listen port")
		apiKeys   = flag.String("api-keys", envOr("API_KEYS", ""), "comma-separated API keys; empty disables auth")
		rateLimit = flag.Int("rate-limit", 10, "requests per second per caller; <= 0 disables limiting")
		verbose   = flag.Bool("verbose", false, "enable debug logging")
		baseURL   = flag.String("base-url", envOr("BACKEND_BASE_URL", "http://localhost:8000"), "snapshot backend base URL")
		tripID    = flag.String("trip-id", envOr("TRIP_ID", ""), "trip to follow at startup")
		pollMs    = flag.Int("poll-interval-ms", 0, "polling interval in milliseconds (0 = default)")
	)
	flag.Parse()

	return appconf.Config{
		Env:          appconf.EnvFlagToEnvironment(*envFlag),
		Port:         *port,
		ApiKeys:      ParseAPIKeys(*apiKeys),
		RateLimit:    *rateLimit,
		Verbose:      *verbose,
		BaseURL:      strings.TrimRight(*baseURL, "/"),
		TripID:       *tripID,
		PollInterval: time.Duration(*pollMs) * time.Millisecond,
	}
}

func newLogger(cfg appconf.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Env == appconf.Production {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := loadConfig()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "dashboard exited with error", err)
		os.Exit(1)
	}
}

func run(cfg appconf.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.RealClock{}
	m := metrics.New()

	manager := transport.NewManager(
		transport.Config{
			PollInterval:      cfg.PollInterval,
			KeepaliveInterval: cfg.KeepaliveInterval,
		},
		transport.NewHTTPFetcher(cfg.BaseURL, nil, nil),
		transport.NewWebsocketDialer(cfg.BaseURL),
		clk, logger, m,
	)
	defer manager.Close()

	application := &app.Application{
		Config:    cfg,
		Logger:    logger,
		Clock:     clk,
		Metrics:   m,
		Transport: manager,
	}

	if cfg.TripID != "" {
		if err := manager.Start(cfg.TripID); err != nil {
			return fmt.Errorf("failed to select startup trip: %w", err)
		}
	}

	api := viewapi.NewRestAPI(application)
	defer api.Shutdown()

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	webui.NewWebUI(application).SetRoutes(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(mux),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logging.LogOperation(logger, "server_listening",
			slog.Int("port", cfg.Port),
			slog.String("env", cfg.Env.String()),
			slog.String("backend", cfg.BaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	logging.LogOperation(logger, "server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
