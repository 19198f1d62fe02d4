package server

import (
	"database/sql"
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, store Store, notifier Notifier, rng *rand.Rand) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Secret Santa API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", handleCreateGame(logger, store, notifier))
		r.Get("/{gameID}", handleGetGame(store))
		r.Post("/{gameID}/begin", handleBeginGame(logger, store, notifier, rng))
	})
}
