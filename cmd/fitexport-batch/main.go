// Command fitexport-batch runs a single export of every stored user and exits.
// It is meant to be started by cron or a systemd timer alongside the fitexport server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitexport/internal/config"
	"fitexport/internal/database"
	"fitexport/internal/export"
	"fitexport/internal/fitbit"
	"fitexport/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := database.Open(ctx, cfg)
	if err != nil {
		l.Fatalw("failed to open token store", "backend", cfg.TokenStore, "error", err)
	}
	defer closeStore()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	refresher := fitbit.NewRefresher(cfg.ClientID, cfg.ClientSecret, cfg.APIBaseURL+fitbit.TokenPath, httpClient)
	api := fitbit.NewClient(cfg.APIBaseURL, httpClient, cfg.HTTPTimeout)
	runner := export.NewRunner(store, refresher, api, export.DefaultMetrics(cfg.APIVersion), cfg.DataDir, l)

	rep, err := runner.Run(ctx, cfg.StartDate, time.Now())
	if err != nil {
		l.Fatalw("batch export failed", "error", err)
	}

	l.Infow("batch export report",
		"run_id", rep.RunID,
		"start_date", rep.StartDate,
		"end_date", rep.EndDate,
		"succeeded", rep.Succeeded,
		"failed", rep.Failed,
	)
}
