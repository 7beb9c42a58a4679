package handler

import (
	"net/http"
	"time"

	"SensorHubAPI/internal/apperror"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/service"

	"github.com/gorilla/mux"
)

type TelemetryHandler struct {
	telemetryService *service.TelemetryService
	log              *logger.Logger
}

func NewTelemetryHandler(telemetryService *service.TelemetryService, log *logger.Logger) *TelemetryHandler {
	return &TelemetryHandler{
		telemetryService: telemetryService,
		log:              log,
	}
}

// RegisterIngestRoutes registers the write routes open to ingest keys.
func (h *TelemetryHandler) RegisterIngestRoutes(r *mux.Router) {
	r.HandleFunc("/telemetry/ingest", h.Ingest).Methods("POST")
}

func (h *TelemetryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/telemetry", h.QueryTelemetry).Methods("GET")
	r.HandleFunc("/telemetry/{device_id}/latest", h.GetLatestTelemetry).Methods("GET")
	r.HandleFunc("/telemetry/{device_id}/series", h.GetSeries).Methods("GET")
}

func (h *TelemetryHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.IngestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.telemetryService.Ingest(r.Context(), p.Scope(), &req)
	if err != nil {
		if resp != nil {
			respondJSON(w, apperror.KindOf(err).HTTPStatus(), resp)
			return
		}
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *TelemetryHandler) QueryTelemetry(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()

	req := &models.TelemetryQueryRequest{
		TenantID:     p.Scope(),
		DeviceIDs:    query["device_id"],
		VariableCode: query.Get("variable"),
		Limit:        queryInt(r, "limit", service.DefaultTelemetryLimit),
		Offset:       queryInt(r, "offset", 0),
	}

	if startTime := query.Get("start_time"); startTime != "" {
		t, err := service.ParseTimeParam(startTime, false)
		if err != nil {
			respondError(w, http.StatusBadRequest, "start_time: "+err.Error())
			return
		}
		req.StartTime = &t
	}

	if endTime := query.Get("end_time"); endTime != "" {
		t, err := service.ParseTimeParam(endTime, true)
		if err != nil {
			respondError(w, http.StatusBadRequest, "end_time: "+err.Error())
			return
		}
		req.EndTime = &t
	}

	response, err := h.telemetryService.Query(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

func (h *TelemetryHandler) GetLatestTelemetry(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	deviceID := mux.Vars(r)["device_id"]

	points, err := h.telemetryService.GetLatest(r.Context(), p.Scope(), deviceID)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, points)
}

func (h *TelemetryHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	deviceID := mux.Vars(r)["device_id"]
	query := r.URL.Query()

	end := time.Now().UTC()
	if v := query.Get("end_time"); v != "" {
		t, err := service.ParseTimeParam(v, true)
		if err != nil {
			respondError(w, http.StatusBadRequest, "end_time: "+err.Error())
			return
		}
		end = t
	}
	start := end.Add(-24 * time.Hour)
	if v := query.Get("start_time"); v != "" {
		t, err := service.ParseTimeParam(v, false)
		if err != nil {
			respondError(w, http.StatusBadRequest, "start_time: "+err.Error())
			return
		}
		start = t
	}

	series, err := h.telemetryService.GetSeries(r.Context(), p.Scope(), deviceID, query.Get("variable"), query.Get("interval"), start, end)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, series)
}
