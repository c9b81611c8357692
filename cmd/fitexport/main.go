package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/sessions"

	"fitexport/internal/auth"
	"fitexport/internal/config"
	"fitexport/internal/database"
	"fitexport/internal/export"
	"fitexport/internal/fitbit"
	"fitexport/internal/logger"
	"fitexport/internal/server"
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

	store, closeStore, err := database.Open(context.Background(), cfg)
	if err != nil {
		l.Fatalw("failed to open token store", "backend", cfg.TokenStore, "error", err)
	}
	defer closeStore()

	var sessionStore sessions.Store = auth.NewCookieStore(cfg.SessionSecret, cfg.TLSEnabled)
	if cfg.DatabaseURL != "" {
		pg, err := auth.NewStore(cfg.DatabaseURL, cfg.SessionSecret, cfg.TLSEnabled)
		if err != nil {
			l.Fatalw("failed to create session store", "error", err)
		}
		defer pg.Close()
		sessionStore = pg
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	provider := fitbit.NewProvider(cfg.ClientID, cfg.ClientSecret, cfg.ServerURL, httpClient)
	refresher := fitbit.NewRefresher(cfg.ClientID, cfg.ClientSecret, cfg.APIBaseURL+fitbit.TokenPath, httpClient)
	api := fitbit.NewClient(cfg.APIBaseURL, httpClient, cfg.HTTPTimeout)
	runner := export.NewRunner(store, refresher, api, export.DefaultMetrics(cfg.APIVersion), cfg.DataDir, l)

	srv := server.New(cfg, store, sessionStore, provider, runner, l)

	l.Infow("starting server",
		"addr", cfg.ListenAddr,
		"tls", cfg.TLSEnabled,
		"api_version", cfg.APIVersion,
		"client_id", cfg.ClientID,
		"token_store", cfg.TokenStore,
	)
	l.Infof("Go to %s/authorize", cfg.ServerURL)
	if cfg.StartDate == "" {
		l.Warn("START_DATE is not set; /write-data will fail until it is")
	}

	if err := srv.Run(); err != nil {
		l.Fatalw("server stopped", "error", err)
	}
}
