package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"SensorHubAPI/internal/apperror"
	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON encodes data before writing the status so an unencodable
// payload becomes a 500 rather than a truncated 200.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logger.Error("Failed to encode %d response: %v", statusCode, err)
		statusCode = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Debug("Failed to write response: %v", err)
	}
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError answers with the status of err's kind. Internal errors
// are logged and reported with a generic message.
func respondServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInternal {
		log.Error("Request failed: %v", err)
	}
	respondError(w, kind.HTTPStatus(), apperror.PublicMessage(err))
}

// decodeJSON reads r's body into v and answers itself on failure. Bodies are
// capped by the server's MaxBytesHandler.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// principal returns the authenticated caller. Routes are only reachable
// through the auth middleware, so a missing principal is answered with 401.
func principal(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return p, true
}

func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseID(w http.ResponseWriter, raw, what string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid "+what+" ID")
		return 0, false
	}
	return id, true
}
