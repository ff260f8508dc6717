package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/mkotelnikov/transcription-insights/internal/adapters/http"
	"github.com/mkotelnikov/transcription-insights/internal/bootstrap"
	"github.com/mkotelnikov/transcription-insights/internal/config"
	"github.com/mkotelnikov/transcription-insights/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("api", cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	// Adopt the primary table up front; an empty store is not fatal, the
	// query endpoints just answer with empty results until data arrives.
	if !app.Session.Connect(ctx) {
		logger.Warn("store has no tables yet", "location", cfg.StoreLocation)
	}

	router := httpadapter.NewRouter(app.Query, app.Insight, app.HTTPStats, httpadapter.RateLimits{
		RPS:   cfg.APIRateLimitRPS,
		Burst: cfg.APIRateLimitBurst,
	}).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown", "error", err)
	}
}
