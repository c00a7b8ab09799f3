package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"
)

const defaultAgentURL = "http://localhost:2772"

func main() {
	_ = godotenv.Load()

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port := envOrDefault("PORT", "8080")
	agentURL := envOrDefault("APPCONFIG_AGENT_URL", defaultAgentURL)
	application := envOrDefault("APPCONFIG_APPLICATION", "flagdemo")
	environment := envOrDefault("APPCONFIG_ENVIRONMENT", "dev")
	profile := envOrDefault("APPCONFIG_PROFILE", "app-config")
	interval, err := pollInterval()
	if err != nil {
		return err
	}

	poller := NewPoller(agentURL, application, environment, profile, interval)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: setupRoutes(poller),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return poller.Run(gCtx)
	})

	g.Go(func() error {
		slog.Info("listening", "addr", srv.Addr, "pollInterval", interval)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func pollInterval() (time.Duration, error) {
	raw := envOrDefault("FLAG_POLL_INTERVAL", "30")
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("invalid FLAG_POLL_INTERVAL %q", raw)
	}
	return time.Duration(seconds) * time.Second, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
