package handler

import (
	"net/http"
	"strings"

	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/websocket"

	"github.com/gorilla/mux"
)

// TokenAuthenticator is satisfied by *middleware.Authenticator.
type TokenAuthenticator interface {
	Principal(token string) (*auth.Principal, error)
}

type RealtimeHandler struct {
	hub   *websocket.Hub
	authn TokenAuthenticator
	log   *logger.Logger
}

func NewRealtimeHandler(hub *websocket.Hub, authn TokenAuthenticator, log *logger.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub:   hub,
		authn: authn,
		log:   log,
	}
}

func (h *RealtimeHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws", h.Serve).Methods("GET")
}

// Serve upgrades to a websocket streaming the caller's tenant events. The
// token comes from the query string or a Bearer header.
func (h *RealtimeHandler) Serve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	p, err := h.authn.Principal(token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if p.Role == auth.RoleIngest {
		respondError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	websocket.ServeWs(h.hub, w, r, p.Scope(), h.log)
}
