package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"SensorHubAPI/internal/apperror"
	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"
	"SensorHubAPI/internal/stats"

	"github.com/jung-kurt/gofpdf"
)

type ReportConfig struct {
	DefaultWindow time.Duration
	MaxWindow     time.Duration
}

type ReportService struct {
	devices   repository.DeviceStore
	types     repository.DeviceTypeStore
	telemetry repository.TelemetryStore
	alerts    repository.AlertStore
	cfg       ReportConfig
	log       *logger.Logger
	now       func() time.Time
}

func NewReportService(
	devices repository.DeviceStore,
	types repository.DeviceTypeStore,
	telemetry repository.TelemetryStore,
	alerts repository.AlertStore,
	cfg ReportConfig,
	log *logger.Logger,
) *ReportService {
	if cfg.DefaultWindow <= 0 {
		cfg.DefaultWindow = 30 * 24 * time.Hour
	}
	if cfg.MaxWindow < cfg.DefaultWindow {
		cfg.MaxWindow = cfg.DefaultWindow
	}
	return &ReportService{
		devices:   devices,
		types:     types,
		telemetry: telemetry,
		alerts:    alerts,
		cfg:       cfg,
		log:       log.WithComponent("reports"),
		now:       time.Now,
	}
}

// window resolves the report period. Missing bounds default to the last
// DefaultWindow ending now.
func (s *ReportService) window(q models.ReportQuery) (time.Time, time.Time, error) {
	end := s.now().UTC()
	if q.EndDate != "" {
		t, err := ParseTimeParam(q.EndDate, true)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.Validation("endDate: %v", err)
		}
		end = t
	}

	start := end.Add(-s.cfg.DefaultWindow)
	if q.StartDate != "" {
		t, err := ParseTimeParam(q.StartDate, false)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.Validation("startDate: %v", err)
		}
		start = t
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, apperror.Validation("startDate must be before endDate")
	}
	if end.Sub(start) > s.cfg.MaxWindow {
		return time.Time{}, time.Time{}, apperror.Validation("report window may not exceed %s", s.cfg.MaxWindow)
	}
	return start, end, nil
}

func (s *ReportService) Generate(ctx context.Context, p *auth.Principal, q models.ReportQuery) (*models.Report, error) {
	if q.Type == "" {
		q.Type = models.ReportSummary
	}
	if q.Type != models.ReportSummary && q.Type != models.ReportTelemetry {
		return nil, apperror.Validation("invalid report type %q: use summary or telemetry", q.Type)
	}
	if q.Type == models.ReportTelemetry && q.DeviceID == "" {
		return nil, apperror.Validation("deviceId is required for telemetry reports")
	}

	start, end, err := s.window(q)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		Type:        q.Type,
		TenantID:    p.Scope(),
		StartDate:   start,
		EndDate:     end,
		GeneratedAt: s.now().UTC(),
	}

	switch q.Type {
	case models.ReportTelemetry:
		report.Telemetry, err = s.telemetryReport(ctx, p.Scope(), q.DeviceID, start, end)
	default:
		report.Summary, err = s.summaryReport(ctx, p.Scope(), start, end)
	}
	if err != nil {
		return nil, err
	}

	s.log.Debug("Generated %s report for tenant %q (%s to %s)", q.Type, report.TenantID, start.Format(time.RFC3339), end.Format(time.RFC3339))
	return report, nil
}

func (s *ReportService) summaryReport(ctx context.Context, tenantID string, start, end time.Time) (*models.SummaryReport, error) {
	byStatus, err := s.devices.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to count devices")
	}

	points, err := s.telemetry.Count(ctx, tenantID, start, end)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to count telemetry")
	}

	alerts, err := s.alerts.GetStatistics(ctx, tenantID, &start, &end)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to load alert statistics")
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}

	return &models.SummaryReport{
		TotalDevices:    total,
		DevicesByStatus: byStatus,
		TelemetryPoints: points,
		Alerts:          alerts,
	}, nil
}

func (s *ReportService) telemetryReport(ctx context.Context, tenantID, deviceID string, start, end time.Time) (*models.TelemetryReport, error) {
	device, err := s.devices.GetByID(ctx, tenantID, deviceID)
	if err != nil {
		return nil, storeError(err, "device %s not found", deviceID)
	}

	values, err := s.telemetry.ValuesByVariable(ctx, tenantID, deviceID, start, end)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to load telemetry")
	}

	catalog, err := s.types.GetVariables(ctx, device.DeviceTypeID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to load variable catalog")
	}
	meta := make(map[string]models.DeviceTypeVariable, len(catalog))
	for _, v := range catalog {
		meta[v.VariableCode] = v
	}

	codes := make([]string, 0, len(values))
	for code := range values {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	report := &models.TelemetryReport{
		DeviceID:   device.ID,
		DeviceName: device.Name,
		Variables:  make([]models.VariableStats, 0, len(codes)),
	}
	for _, code := range codes {
		label := code
		v := meta[code]
		if v.Label != "" {
			label = v.Label
		}
		report.Variables = append(report.Variables, models.VariableStats{
			VariableCode: code,
			Label:        label,
			Unit:         v.Unit,
			Summary:      stats.Compute(values[code]),
		})
	}

	return report, nil
}

// RenderPDF lays the report out as a single A4 document.
func (s *ReportService) RenderPDF(report *models.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("SensorHub %s report", report.Type), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := report.Type
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	pdf.Cell(0, 10, tr(fmt.Sprintf("SensorHub %s report", title)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", report.StartDate.Format(time.RFC3339), report.EndDate.Format(time.RFC3339)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(10)

	switch {
	case report.Summary != nil:
		renderSummary(pdf, tr, report.Summary)
	case report.Telemetry != nil:
		renderTelemetry(pdf, tr, report.Telemetry)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderTable(pdf *gofpdf.Fpdf, tr func(string) string, widths []float64, header []string, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func renderSummary(pdf *gofpdf.Fpdf, tr func(string) string, sum *models.SummaryReport) {
	rows := [][]string{
		{"Devices", fmt.Sprintf("%d", sum.TotalDevices)},
		{"Telemetry points", fmt.Sprintf("%d", sum.TelemetryPoints)},
	}
	for _, status := range sortedKeys(sum.DevicesByStatus) {
		rows = append(rows, []string{"Devices " + status, fmt.Sprintf("%d", sum.DevicesByStatus[status])})
	}
	if sum.Alerts != nil {
		rows = append(rows, []string{"Alerts", fmt.Sprintf("%d", sum.Alerts.Total)})
		for _, sev := range sortedKeys(sum.Alerts.BySeverity) {
			rows = append(rows, []string{"Alerts " + sev, fmt.Sprintf("%d", sum.Alerts.BySeverity[sev])})
		}
		for _, st := range sortedKeys(sum.Alerts.ByStatus) {
			rows = append(rows, []string{"Alerts " + st, fmt.Sprintf("%d", sum.Alerts.ByStatus[st])})
		}
	}

	renderTable(pdf, tr, []float64{90, 50}, []string{"Metric", "Value"}, rows)
}

func renderTelemetry(pdf *gofpdf.Fpdf, tr func(string) string, rep *models.TelemetryReport) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Device %s (%s)", rep.DeviceName, rep.DeviceID)))
	pdf.Ln(10)

	rows := make([][]string, 0, len(rep.Variables))
	for _, v := range rep.Variables {
		rows = append(rows, []string{
			v.Label,
			v.Unit,
			fmt.Sprintf("%d", v.Count),
			formatStat(v.Min),
			formatStat(v.Max),
			formatStat(v.Avg),
		})
	}

	renderTable(pdf, tr, []float64{50, 20, 25, 30, 30, 30}, []string{"Variable", "Unit", "Count", "Min", "Max", "Avg"}, rows)
}

func formatStat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
