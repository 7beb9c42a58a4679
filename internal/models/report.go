package models

import (
	"time"

	"SensorHubAPI/internal/stats"
)

const (
	ReportSummary   = "summary"
	ReportTelemetry = "telemetry"
)

type ReportQuery struct {
	Type      string
	StartDate string
	EndDate   string
	DeviceID  string
}

type Report struct {
	Type        string           `json:"type"`
	TenantID    string           `json:"tenantId,omitempty"`
	StartDate   time.Time        `json:"startDate"`
	EndDate     time.Time        `json:"endDate"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Summary     *SummaryReport   `json:"summary,omitempty"`
	Telemetry   *TelemetryReport `json:"telemetry,omitempty"`
}

type SummaryReport struct {
	TotalDevices    int              `json:"totalDevices"`
	DevicesByStatus map[string]int   `json:"devicesByStatus"`
	TelemetryPoints int              `json:"telemetryPoints"`
	Alerts          *AlertStatistics `json:"alerts"`
}

type TelemetryReport struct {
	DeviceID   string          `json:"deviceId"`
	DeviceName string          `json:"deviceName"`
	Variables  []VariableStats `json:"variables"`
}

type VariableStats struct {
	VariableCode string `json:"variableCode"`
	Label        string `json:"label"`
	Unit         string `json:"unit"`
	stats.Summary
}
