package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"leadscraper-backend/lib/browser"
	"leadscraper-backend/lib/configutil"
	configsqlite "leadscraper-backend/lib/configutil/sqlite"
	"leadscraper-backend/lib/telemetry"
	"leadscraper-backend/lib/util/serviceutil"
	"leadscraper-backend/services/leadscraper"
	"leadscraper-backend/services/leadscraper/db"

	"github.com/dgraph-io/badger/v4"
)

type Config struct {
	Port int `json:"port"`
	// shared secret the upstream identity layer signs requests with
	AccessToken string              `json:"access_token"`
	Database    configsqlite.Struct `json:"database"`
	// directory for the target resolution cache, empty disables it
	TargetCacheDir string                 `json:"target_cache_dir"`
	Smtp           leadscraper.SmtpConfig `json:"smtp"`
}

func main() {
	telemetry.InitSlog(false)

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Port == 0 {
		config.Port = 8311
	}

	slog.Info("opening database...")
	sqlite, err := config.Database.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}

	var targetCache *badger.DB
	if config.TargetCacheDir != "" {
		targetCache, err = badger.Open(badger.DefaultOptions(config.TargetCacheDir))
		if err != nil {
			serviceutil.Fatal("failed to open target cache", err)
		}
		defer targetCache.Close()
	}

	ctx := serviceutil.SignalContext()

	service := leadscraper.NewService(sqlite, leadscraper.Options{
		Driver:      browser.NewChromeDriver(ctx),
		TargetCache: targetCache,
		Smtp:        config.Smtp,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/scraper", func(w http.ResponseWriter, r *http.Request) {
		user, ok := serviceutil.UserFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req leadscraper.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.Header().Set("content-type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(leadscraper.ErrorResponse{Error: "malformed request body"})
			return
		}
		res := service.Handle(r.Context(), user, req)
		w.Header().Set("content-type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			slog.Warn("failed to write response", "err", err)
		}
	})

	go serviceutil.StartHttpServer(
		config.Port,
		serviceutil.RequireIdentity(config.AccessToken, mux),
	)

	telemetry.SetupFromEnv(ctx, "cmd/leadscraperd")
	telemetry.InstrumentPerfStats(ctx)

	<-ctx.Done()
}
