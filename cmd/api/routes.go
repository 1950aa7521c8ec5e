package main

import (
	"database/sql"
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"questbot-backend/internal/analytics"
	"questbot-backend/internal/auth"
	"questbot-backend/internal/config"
	"questbot-backend/internal/quest"
	"questbot-backend/internal/static"
)

// newHandler builds the route table behind the optional auth and CORS
// wrappers.
func newHandler(cfg *config.Config, relay http.Handler, database *sql.DB, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	mux.Handle("POST /questbot", relay)
	mux.HandleFunc("POST /chat", quest.ChatHandler(database, logger))
	mux.HandleFunc("POST /events", analytics.ClientEventHandler(database, logger))

	if cfg.ServeStatic {
		static.New(cfg.StaticDir, static.DefaultAllowed).Register(mux)
	}

	var handler http.Handler = mux
	if cfg.JWTSecret != "" {
		handler = auth.New([]byte(cfg.JWTSecret)).Optional(handler)
	}

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(handler)
}
