package handler

import (
	"net/http"
	"time"

	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/service"

	"github.com/gorilla/mux"
)

type AlertHandler struct {
	alertService *service.AlertService
	log          *logger.Logger
}

func NewAlertHandler(alertService *service.AlertService, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
		log:          log,
	}
}

func (h *AlertHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/alerts", h.List).Methods("GET")
	r.HandleFunc("/alerts/stats", h.Statistics).Methods("GET")
	r.HandleFunc("/alerts/{id:[0-9]+}", h.Get).Methods("GET")
	r.HandleFunc("/alerts/{id:[0-9]+}", h.UpdateStatus).Methods("PATCH")
}

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()

	filter := models.AlertFilter{
		Status:   models.AlertStatus(query.Get("status")),
		Severity: models.Severity(query.Get("severity")),
		DeviceID: query.Get("deviceId"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", models.DefaultAlertLimit),
	}

	resp, err := h.alertService.List(r.Context(), p, filter)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, mux.Vars(r)["id"], "alert")
	if !ok {
		return
	}

	alert, err := h.alertService.Get(r.Context(), p, id)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, alert)
}

func (h *AlertHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, mux.Vars(r)["id"], "alert")
	if !ok {
		return
	}

	var req models.UpdateAlertRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	alert, err := h.alertService.UpdateStatus(r.Context(), p, id, &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, alert)
}

func (h *AlertHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var start, end *time.Time
	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := service.ParseTimeParam(v, false)
		if err != nil {
			respondError(w, http.StatusBadRequest, "startDate: "+err.Error())
			return
		}
		start = &t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := service.ParseTimeParam(v, true)
		if err != nil {
			respondError(w, http.StatusBadRequest, "endDate: "+err.Error())
			return
		}
		end = &t
	}

	stats, err := h.alertService.Statistics(r.Context(), p, start, end)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
