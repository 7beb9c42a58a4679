package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/metrics"
)

// Recovery turns a handler panic into a generic 500. The panic value and
// stack only go to the log.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					metrics.PanicsRecovered.WithLabelValues("http").Inc()
					log.Error("PANIC: %v request_id=%s %s %s", err, RequestID(r.Context()), r.Method, r.URL.Path)
					log.Error("Stack trace:\n%s", debug.Stack())

					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
