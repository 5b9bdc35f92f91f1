package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/GeorgiosLymperis/quotes-cache/internal/cache"
	"github.com/GeorgiosLymperis/quotes-cache/internal/config"
	"github.com/lmittmann/tint"
)

// main starts a tiny read-only HTTP view over the quote cache. It never
// scrapes; run quotes-go first to populate the cache.
// Configuration:
//   - GATEWAY_ADDRESS (default ":8080")
//   - DATA_PATH, resolved like quotes-go does (environment, then data.env,
//     default "quotes.jsonl")
func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.Kitchen})))

	address := env("GATEWAY_ADDRESS", ":8080")
	store, err := openStore(config.Options{})
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              address,
		Handler:           newMux(store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("gateway listening", "address", address, "cache", store.Path())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("gateway stopped", "err", err)
		os.Exit(1)
	}
}

// openStore opens the cache quotes-go writes to.
func openStore(opts config.Options) (cache.Store, error) {
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}
	return cache.Open(cfg.DataPath), nil
}

func newMux(store cache.Store) *http.ServeMux {
	mux := http.NewServeMux()

	// Health probe endpoint.
	mux.HandleFunc("/health", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"status":"ok"}`))
	})

	// /quotes returns the cached records as a JSON array.
	mux.HandleFunc("/quotes", func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodGet {
			http.Error(writer, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		records, ok, err := store.Load(request.Context())
		if err != nil {
			slog.Error("load cache", "path", store.Path(), "err", err)
			http.Error(writer, "cache unreadable", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(writer, "no cache yet", http.StatusNotFound)
			return
		}

		writer.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(writer).Encode(records); err != nil {
			slog.Warn("write response", "err", err)
		}
	})

	return mux
}

// env retrieves an environment variable or returns a default value.
func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
