// QR Dialogue Engine Server
//
// Standalone HTTP server for the QR payload dialogue engine. A chat
// transport (Telegram, web, CLI) posts user text events and renders the
// returned actions.
//
// Usage:
//
//	go run ./cmd                       # Default :8080
//	HTTP_ADDR=:9090 go run ./cmd       # Custom port
//	go build -o qrbot ./cmd && ./qrbot
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/quickmark-labs/qrbot/eventbus"
	"github.com/quickmark-labs/qrbot/qrengine/config"
	"github.com/quickmark-labs/qrbot/qrengine/dialogue"
	"github.com/quickmark-labs/qrbot/qrengine/httpapi"
	"github.com/quickmark-labs/qrbot/qrengine/i18n"
	"github.com/quickmark-labs/qrbot/qrengine/observability"
	"github.com/quickmark-labs/qrbot/qrengine/schema"
	"github.com/quickmark-labs/qrbot/qrengine/session"
)

// stdLogger implements the package Logger interfaces using standard
// library log.
type stdLogger struct {
	debug bool
}

func (l *stdLogger) Debug(msg string, keysAndValues ...any) {
	if l.debug {
		log.Printf("[DEBUG] %s %v", msg, keysAndValues)
	}
}

func (l *stdLogger) Info(msg string, keysAndValues ...any) {
	log.Printf("[INFO] %s %v", msg, keysAndValues)
}

func (l *stdLogger) Warn(msg string, keysAndValues ...any) {
	log.Printf("[WARN] %s %v", msg, keysAndValues)
}

func (l *stdLogger) Error(msg string, keysAndValues ...any) {
	log.Printf("[ERROR] %s %v", msg, keysAndValues)
}

func main() {
	addrFlag := flag.String("addr", "", "listen address (overrides HTTP_ADDR)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addrFlag != "" {
		cfg.HTTPAddr = *addrFlag
	}

	logger := &stdLogger{debug: cfg.LogLevel == "debug"}
	logger.Info("qrbot_starting", "address", cfg.HTTPAddr, "locales_dir", cfg.LocalesDir)

	// Text catalog.
	catalog, err := i18n.Load(cfg.LocalesDir, cfg.DefaultLocale)
	if err != nil {
		log.Fatalf("Failed to load locale catalogs: %v", err)
	}
	logger.Info("catalog_loaded", "locales", catalog.Locales(), "default", catalog.DefaultLocale())

	// Schema registry with startup sanity check.
	registry := schema.NewRegistry()
	if err := registry.Validate(); err != nil {
		log.Fatalf("Schema registry invalid: %v", err)
	}

	// Tracing (optional).
	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracer(context.Background(), observability.TracingConfig{
			ServiceName:    "qrbot",
			ServiceVersion: cfg.ServiceVersion,
			Environment:    cfg.Environment,
			Endpoint:       cfg.OTLPEndpoint,
			SampleRatio:    cfg.TraceSampleRatio,
		})
		if err != nil {
			logger.Warn("tracing_init_failed", "error", err)
		} else {
			logger.Info("tracing_enabled", "endpoint", cfg.OTLPEndpoint)
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("tracer_shutdown_failed", "error", err)
				}
			}()
		}
	}

	// Event bus with logging middleware and metrics listeners.
	bus := eventbus.New(logger)
	bus.Use(eventbus.NewLoggingMiddleware(logger))
	observability.RegisterBusMetrics(bus)

	// Dialogue engine.
	store := session.NewStore()
	ctrl := dialogue.NewController(registry, store, bus, catalog, logger)

	// HTTP API.
	handler := httpapi.NewHandler(ctrl, catalog, logger, cfg.RequestTimeout)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.Router(),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("qrbot_ready", "address", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sig := <-sigCh
	logger.Info("shutdown_signal_received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_forced", "error", err)
	}
	logger.Info("qrbot_stopped")
}
