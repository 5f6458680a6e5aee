package health

import (
	"encoding/json"
	"net/http"
)

// StatusReader is the read side of a Monitor.
type StatusReader interface {
	Status() HealthStatus
}

// LivenessHandler returns an HTTP handler for liveness probes.
// This is a simple check that the service is running.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// Handler serves the current snapshot as JSON: 200 when ok, 503 when down.
// It never runs checks itself.
func Handler(sr StatusReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := sr.Status()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(HTTPStatusCode(status))
		_ = json.NewEncoder(w).Encode(status)
	}
}

// HTTPStatusCode maps a snapshot to its response code.
func HTTPStatusCode(status HealthStatus) int {
	if status.OK() {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

// RegisterHandlers registers the liveness and snapshot handlers on mux.
func RegisterHandlers(mux *http.ServeMux, sr StatusReader) {
	mux.HandleFunc("/healthz", LivenessHandler())
	mux.HandleFunc("/health", Handler(sr))
}
