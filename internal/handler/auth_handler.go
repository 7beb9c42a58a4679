package handler

import (
	"net/http"

	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/service"

	"github.com/gorilla/mux"
)

type AuthHandler struct {
	authService *service.AuthService
	log         *logger.Logger
}

func NewAuthHandler(authService *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// RegisterPublicRoutes registers the routes reachable without credentials.
func (h *AuthHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
}

func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/totp/enroll", h.EnrollTOTP).Methods("POST")
	r.HandleFunc("/auth/api-keys", h.ListAPIKeys).Methods("GET")
	r.HandleFunc("/auth/api-keys", h.CreateAPIKey).Methods("POST")
	r.HandleFunc("/auth/api-keys/{id}", h.RevokeAPIKey).Methods("DELETE")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) EnrollTOTP(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.EnrollTOTP(r.Context(), p, &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	keys, err := h.authService.ListAPIKeys(r.Context(), p)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, keys)
}

func (h *AuthHandler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.CreateAPIKeyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.CreateAPIKey(r.Context(), p, &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) RevokeAPIKey(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.authService.RevokeAPIKey(r.Context(), p, mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
