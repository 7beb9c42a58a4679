package handler

import (
	"net/http"

	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/service"

	"github.com/gorilla/mux"
)

type RuleHandler struct {
	ruleService *service.RuleService
	log         *logger.Logger
}

func NewRuleHandler(ruleService *service.RuleService, log *logger.Logger) *RuleHandler {
	return &RuleHandler{
		ruleService: ruleService,
		log:         log,
	}
}

func (h *RuleHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/rules", h.List).Methods("GET")
	r.HandleFunc("/rules", h.Create).Methods("POST")
	r.HandleFunc("/rules/{id}", h.Get).Methods("GET")
	r.HandleFunc("/rules/{id}", h.Update).Methods("PUT", "PATCH")
	r.HandleFunc("/rules/{id}", h.Delete).Methods("DELETE")
}

func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	rules, err := h.ruleService.List(r.Context(), p)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, rules)
}

func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.CreateRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rule, err := h.ruleService.Create(r.Context(), p, &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, rule)
}

func (h *RuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, mux.Vars(r)["id"], "rule")
	if !ok {
		return
	}

	rule, err := h.ruleService.Get(r.Context(), p, id)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, rule)
}

func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, mux.Vars(r)["id"], "rule")
	if !ok {
		return
	}

	var req models.UpdateRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rule, err := h.ruleService.Update(r.Context(), p, id, &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, rule)
}

func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, mux.Vars(r)["id"], "rule")
	if !ok {
		return
	}

	if err := h.ruleService.Delete(r.Context(), p, id); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
