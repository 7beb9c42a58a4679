package handler

import (
	"net/http"

	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/service"

	"github.com/gorilla/mux"
)

type DeviceHandler struct {
	deviceService    *service.DeviceService
	telemetryService *service.TelemetryService
	log              *logger.Logger
}

func NewDeviceHandler(deviceService *service.DeviceService, telemetryService *service.TelemetryService, log *logger.Logger) *DeviceHandler {
	return &DeviceHandler{
		deviceService:    deviceService,
		telemetryService: telemetryService,
		log:              log,
	}
}

// RegisterIngestRoutes registers the routes open to ingest keys.
func (h *DeviceHandler) RegisterIngestRoutes(r *mux.Router) {
	r.HandleFunc("/devices/{id}/heartbeat", h.Heartbeat).Methods("POST")
}

func (h *DeviceHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/devices", h.List).Methods("GET")
	r.HandleFunc("/devices", h.Create).Methods("POST")
	r.HandleFunc("/devices/{id}", h.Get).Methods("GET")
	r.HandleFunc("/devices/{id}", h.Update).Methods("PUT", "PATCH")
	r.HandleFunc("/devices/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/device-types/{id}/variables", h.ListVariables).Methods("GET")
	r.HandleFunc("/device-types/{id}/variables/{code}", h.UpsertVariable).Methods("PUT")
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	devices, err := h.deviceService.List(r.Context(), p, queryInt(r, "limit", service.DefaultDeviceLimit), queryInt(r, "offset", 0))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, devices)
}

func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.CreateDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	device, err := h.deviceService.Create(r.Context(), p, &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, device)
}

func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	device, err := h.deviceService.Get(r.Context(), p, mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, device)
}

func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.UpdateDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	device, err := h.deviceService.Update(r.Context(), p, mux.Vars(r)["id"], &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, device)
}

func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.deviceService.Delete(r.Context(), p, mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DeviceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	deviceID := mux.Vars(r)["id"]

	if err := h.telemetryService.RecordHeartbeat(r.Context(), p.Scope(), deviceID); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "deviceId": deviceID})
}

func (h *DeviceHandler) ListVariables(w http.ResponseWriter, r *http.Request) {
	vars, err := h.deviceService.Variables(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, vars)
}

func (h *DeviceHandler) UpsertVariable(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var v models.DeviceTypeVariable
	if !decodeJSON(w, r, &v) {
		return
	}
	vars := mux.Vars(r)
	v.DeviceTypeID = vars["id"]
	v.VariableCode = vars["code"]

	if err := h.deviceService.UpsertVariable(r.Context(), p, &v); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, v)
}
