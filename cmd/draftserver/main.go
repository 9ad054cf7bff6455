package main

import (
	"log"
	"net/http"
	"os"

	"draftlite/internal/archive"
	"draftlite/internal/catalog"
	"draftlite/internal/config"
	"draftlite/internal/registry"
	"draftlite/internal/transport"
)

func main() {
	cfg, err := config.FromArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("[Server] %v", err)
	}

	archiveService, archiveMode, err := archive.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init archive service: %v", err)
	}
	defer archiveService.Close()

	baseline, err := catalog.LoadBaseline(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("[Server] Failed to load card catalog from %s: %v", cfg.CatalogPath, err)
	}
	log.Printf("[Server] Card catalog loaded: %d cards", baseline.Size())

	pool := registry.New(archiveService)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/start", transport.NewLaunchHandler(pool, baseline))
	mux.HandleFunc("GET /ws/{lobby}", transport.NewWebSocketHandler(pool))
	mux.HandleFunc("GET /ws/{lobby}/{seat}", transport.NewWebSocketHandler(pool))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticPath)))

	log.Printf("[Server] Archive mode: %s", archiveMode)
	log.Printf("[Server] Static path: %s", cfg.StaticPath)
	log.Printf("[Server] Starting server on %s", cfg.Addr())
	if err := http.ListenAndServe(cfg.Addr(), withCORS(mux)); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
