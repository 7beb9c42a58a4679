package handler

import (
	"fmt"
	"net/http"

	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/service"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	reportService *service.ReportService
	log           *logger.Logger
}

func NewReportHandler(reportService *service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		log:           log,
	}
}

func (h *ReportHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/reports", h.Generate).Methods("GET")
}

func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()

	format := query.Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "pdf" {
		respondError(w, http.StatusBadRequest, "format must be json or pdf")
		return
	}

	report, err := h.reportService.Generate(r.Context(), p, models.ReportQuery{
		Type:      query.Get("type"),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		DeviceID:  query.Get("deviceId"),
	})
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	if format == "json" {
		respondJSON(w, http.StatusOK, report)
		return
	}

	pdf, err := h.reportService.RenderPDF(report)
	if err != nil {
		h.log.Error("Failed to render %s report: %v", report.Type, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	filename := fmt.Sprintf("%s-report-%s.pdf", report.Type, report.EndDate.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.log.Warn("Failed to write report: %v", err)
	}
}
