// Command snakeserver serves move decisions over HTTP and websocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brensch/snekstep/engine"
	"github.com/brensch/snekstep/logging"
	"github.com/brensch/snekstep/server"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	addr := fs.String("addr", getEnvOrDefault("ADDR", ":8080"), "HTTP listen address")
	logFormat := fs.String("log-format", getEnvOrDefault("LOG_FORMAT", logging.FormatText), "Log format: text, json or pretty")
	logLevel := fs.String("log-level", getEnvOrDefault("LOG_LEVEL", "info"), "Log level: debug, info, warn or error")
	shutdownTimeout := fs.Duration("shutdown-timeout", getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 5*time.Second), "Grace period for in-flight requests on exit")

	cfg := engine.DefaultConfig()
	cfg.UseDangerZones = getEnvBoolOrDefault("DANGER_ZONES", cfg.UseDangerZones)
	cfg.RiskWhenRoundsBelow = getEnvIntOrDefault("RISK_ROUNDS", cfg.RiskWhenRoundsBelow)
	cfg.BindFlags(fs)

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	log, err := logging.New(os.Stderr, *logFormat, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snakeserver: %v\n", err)
		os.Exit(2)
	}
	if lvl, _ := logging.ParseLevel(*logLevel); lvl > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	eng := engine.New(cfg, engine.WithLogger(log.With(slog.String("component", "engine"))))
	srv := &http.Server{
		Addr:              *addr,
		Handler:           server.New(eng, log.With(slog.String("component", "http"))).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", *addr),
			slog.Bool("danger_zones", cfg.UseDangerZones),
			slog.Bool("tail_passable", cfg.TreatTailAsPassable),
			slog.Int("risk_rounds", cfg.RiskWhenRoundsBelow),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.Any("err", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", slog.Any("err", err))
		}
	}
}

// Environment variable helpers

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		var i int
		if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
