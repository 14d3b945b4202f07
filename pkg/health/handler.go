package health

import (
	"encoding/json"
	"net/http"
)

// HandlerFunc returns an http.HandlerFunc serving the aggregated check
// results as JSON. Unhealthy responses use status 503.
func HandlerFunc(checks Checks, opts ...Option) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := Run(r.Context(), checks, opts...)

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
