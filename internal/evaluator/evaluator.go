// Package evaluator decides whether a telemetry point opens alerts.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/metrics"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"
)

// Matches applies op to value. Range operators are inclusive on both bounds
// for between and exclusive for outside. A range operator without t2 never
// matches.
func Matches(op models.Operator, value, t1 float64, t2 *float64) bool {
	switch op {
	case models.OperatorLT:
		return value < t1
	case models.OperatorLTE:
		return value <= t1
	case models.OperatorEQ:
		return value == t1
	case models.OperatorNEQ:
		return value != t1
	case models.OperatorGTE:
		return value >= t1
	case models.OperatorGT:
		return value > t1
	case models.OperatorBetween:
		return t2 != nil && value >= t1 && value <= *t2
	case models.OperatorOutside:
		return t2 != nil && (value < t1 || value > *t2)
	}
	return false
}

var operatorPhrases = map[models.Operator]string{
	models.OperatorLT:      "below",
	models.OperatorLTE:     "at or below",
	models.OperatorEQ:      "equal to",
	models.OperatorNEQ:     "not equal to",
	models.OperatorGTE:     "at or above",
	models.OperatorGT:      "above",
	models.OperatorBetween: "between",
	models.OperatorOutside: "outside",
}

// Result carries the alerts opened for one point and the deliveries they need.
type Result struct {
	Opened  []models.Alert
	Intents []models.NotificationIntent
}

type Evaluator struct {
	rules  repository.RuleStore
	alerts repository.AlertStore
	log    *logger.Logger
	now    func() time.Time
}

func New(rules repository.RuleStore, alerts repository.AlertStore, log *logger.Logger) *Evaluator {
	return &Evaluator{
		rules:  rules,
		alerts: alerts,
		log:    log.WithComponent("evaluator"),
		now:    time.Now,
	}
}

// Evaluate checks point against every active rule for the device's type and
// variable. variable may be nil when the catalog has no entry; a variable
// marked not alertable is never evaluated.
//
// A returned error does not invalidate the result: alerts opened before a
// store failure are still reported.
func (e *Evaluator) Evaluate(ctx context.Context, point models.TelemetryPoint, device *models.Device, variable *models.DeviceTypeVariable) (*Result, error) {
	result := &Result{}

	if variable != nil && !variable.IsAlertable {
		return result, nil
	}

	rules, err := e.rules.FindApplicable(ctx, device.TenantID, device.DeviceTypeID, point.VariableCode)
	if err != nil {
		return result, fmt.Errorf("failed to load rules: %w", err)
	}

	var errs []error
	for i := range rules {
		rule := &rules[i]

		if err := rule.Validate(); err != nil {
			e.log.Warn("Skipping rule %d for %s/%s: %v", rule.ID, rule.DeviceTypeID, rule.VariableCode, err)
			metrics.RulesSkipped.WithLabelValues("invalid").Inc()
			continue
		}

		if !Matches(rule.Operator, point.Value, rule.Threshold1, rule.Threshold2) {
			continue
		}

		alert := buildAlert(rule, point, device, variable)
		created, err := e.alerts.CreateIfNoneActive(ctx, alert)
		if err != nil {
			e.log.Error("Failed to open alert for rule %d on device %s: %v", rule.ID, device.ID, err)
			errs = append(errs, err)
			continue
		}

		if !created {
			e.log.Debug("Alert for rule %d on device %s already active", rule.ID, device.ID)
			metrics.AlertsDeduplicated.Inc()
			continue
		}

		metrics.AlertsOpened.WithLabelValues(string(alert.Severity), "rule").Inc()
		e.log.Info("Alert %d opened: %s", alert.ID, alert.Title)

		result.Opened = append(result.Opened, *alert)
		result.Intents = append(result.Intents, AlertIntents(alert, e.now())...)
	}

	return result, errors.Join(errs...)
}

func buildAlert(rule *models.AlertRule, point models.TelemetryPoint, device *models.Device, variable *models.DeviceTypeVariable) *models.Alert {
	label, unit := point.VariableCode, ""
	if variable != nil {
		if variable.Label != "" {
			label = variable.Label
		}
		unit = variable.Unit
	}

	value := point.Value
	ruleID := rule.ID

	return &models.Alert{
		TenantID:     device.TenantID,
		DeviceID:     device.ID,
		AlertRuleID:  &ruleID,
		VariableCode: point.VariableCode,
		Value:        &value,
		Title:        title(rule, label, unit),
		Message:      Interpolate(rule, point, device, label, unit),
		Severity:     rule.Severity,
		Status:       models.StatusOpen,
		DedupKey:     models.RuleDedupKey(rule.ID),
	}
}

func title(rule *models.AlertRule, label, unit string) string {
	t := fmt.Sprintf("%s %s %s%s", label, operatorPhrases[rule.Operator], formatFloat(rule.Threshold1), unit)
	if rule.Operator.IsRange() && rule.Threshold2 != nil {
		t += fmt.Sprintf(" and %s%s", formatFloat(*rule.Threshold2), unit)
	}
	return t
}

// Interpolate renders the rule's message template. Unknown placeholders are
// left untouched.
func Interpolate(rule *models.AlertRule, point models.TelemetryPoint, device *models.Device, label, unit string) string {
	tmpl := rule.MessageTemplate
	if strings.TrimSpace(tmpl) == "" {
		tmpl = models.DefaultMessageTemplate
	}

	deviceName := device.Name
	if deviceName == "" {
		deviceName = device.ID
	}

	threshold2 := ""
	if rule.Threshold2 != nil {
		threshold2 = formatFloat(*rule.Threshold2)
	}

	return strings.NewReplacer(
		"{value}", formatFloat(point.Value),
		"{label}", label,
		"{unit}", unit,
		"{variable}", point.VariableCode,
		"{device}", deviceName,
		"{threshold1}", formatFloat(rule.Threshold1),
		"{threshold2}", threshold2,
	).Replace(tmpl)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AlertIntents lists the deliveries for a newly opened alert. Recipients are
// resolved later by the dispatcher from the tenant's contacts.
func AlertIntents(alert *models.Alert, now time.Time) []models.NotificationIntent {
	subject := fmt.Sprintf("[%s] %s", strings.ToUpper(string(alert.Severity)), alert.Title)

	intents := []models.NotificationIntent{
		{
			Channel:   models.ChannelRealtime,
			TenantID:  alert.TenantID,
			DeviceID:  alert.DeviceID,
			AlertID:   alert.ID,
			Severity:  alert.Severity,
			Subject:   subject,
			Body:      alert.Message,
			Event:     models.EventAlert,
			Data:      map[string]interface{}{"alert": alert},
			CreatedAt: now,
		},
		{
			Channel:   models.ChannelEmail,
			TenantID:  alert.TenantID,
			DeviceID:  alert.DeviceID,
			AlertID:   alert.ID,
			Severity:  alert.Severity,
			Subject:   subject,
			Body:      alert.Message,
			CreatedAt: now,
		},
		{
			Channel:   models.ChannelWebhook,
			TenantID:  alert.TenantID,
			DeviceID:  alert.DeviceID,
			AlertID:   alert.ID,
			Severity:  alert.Severity,
			Subject:   subject,
			Body:      alert.Message,
			Event:     models.EventAlert,
			CreatedAt: now,
		},
	}

	if alert.Severity == models.SeverityCritical {
		intents = append(intents, models.NotificationIntent{
			Channel:   models.ChannelSMS,
			TenantID:  alert.TenantID,
			DeviceID:  alert.DeviceID,
			AlertID:   alert.ID,
			Severity:  alert.Severity,
			Subject:   subject,
			Body:      alert.Message,
			CreatedAt: now,
		})
	}

	return intents
}
