package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/clubsoiree/sondage/internal/api"
	"github.com/clubsoiree/sondage/internal/config"
	"github.com/clubsoiree/sondage/internal/db"
	"github.com/clubsoiree/sondage/internal/middleware"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	// The token middleware reads the secret from the environment, so a
	// file-provided secret has to land there before the first request.
	if cfg.JWTSecret != "" {
		if err := os.Setenv("SONDAGE_JWT_SECRET", cfg.JWTSecret); err != nil {
			log.Fatalf("set jwt secret: %v", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		log.Fatalf("open database %s: %v", cfg.DBPath, err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}()

	store, err := db.NewSQLiteStore(sqlDB)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}
	if err := db.RunMigrations(sqlDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(sqlDB); err != nil {
		log.Fatalf("seed: %v", err)
	}

	router, err := api.NewRouter(store, api.Options{
		AdminPassword:   cfg.AdminPassword,
		AnswerThreshold: cfg.AnswerThreshold,
		RateInterval:    time.Duration(cfg.RateLimitMS) * time.Millisecond,
		ModerationTTL:   time.Duration(cfg.ModerationTTLSeconds) * time.Second,
	})
	if err != nil {
		log.Fatalf("init router: %v", err)
	}

	mux := http.NewServeMux()
	router.Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "name": "Sondage API"})
	})
	if cfg.StaticDir != "" {
		if _, err := os.Stat(cfg.StaticDir); err == nil {
			mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
		} else {
			log.Printf("static dir %s not found, serving API only", cfg.StaticDir)
		}
	}

	handler := middleware.SecureHeaders(middleware.NoStoreAPI(middleware.CORS(middleware.WithAuth(mux))))

	log.Printf("Sondage server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
