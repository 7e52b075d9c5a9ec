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
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dinglespos/backend"
	"dinglespos/config"
	"dinglespos/observability/logging"
	"dinglespos/terminal"
)

const envVar = "POSTERM_ENV"

func main() {
	configFile := flag.String("config", "./posterm.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	env := strings.TrimSpace(os.Getenv(envVar))
	if env == "" {
		env = cfg.Environment
	}
	logger := logging.Setup("posterm", env, cfg.TerminalName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddress != "" {
		go serveMetrics(logger, cfg.MetricsAddress)
	}

	client := backend.NewClient(cfg.BackendURL,
		backend.WithTimeout(cfg.RequestTimeout()),
		backend.WithNotifyRate(cfg.PointsNotifyPerMinute),
	)

	session := terminal.NewSession(terminal.Options{
		Store:          client,
		Prompt:         terminal.NewReaderPrompt(os.Stdin, os.Stdout),
		Logger:         logger,
		Output:         os.Stdout,
		RequestTimeout: cfg.RequestTimeout(),
	})

	logger.Info("terminal ready", "backend", cfg.BackendURL)
	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("session ended", slog.Any("error", err))
		os.Exit(1)
	}
}

func serveMetrics(logger *slog.Logger, address string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("metrics listener up", "address", address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics listener failed", slog.Any("error", err))
	}
}
