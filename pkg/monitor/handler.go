package monitor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stillpoint/haven/pkg/cache"
)

// defaultJournalLimit bounds /journal responses unless ?n= is given.
const defaultJournalLimit = 100

// Handler returns a router exposing the store's stats, trailing-hour
// metrics and recent journal as JSON, for a live monitoring view.
//
// Routes: GET /stats, GET /metrics, GET /journal?n=100.
func Handler(store *cache.Store) http.Handler {
	r := chi.NewRouter()

	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, store.Stats())
	})

	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, store.Metrics())
	})

	r.Get("/journal", func(w http.ResponseWriter, req *http.Request) {
		limit := defaultJournalLimit
		if raw := req.URL.Query().Get("n"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}
		writeJSON(w, store.Journal(limit))
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
