package models

import (
	"errors"
	"fmt"
	"time"
)

type Operator string

const (
	OperatorLT      Operator = "lt"
	OperatorLTE     Operator = "lte"
	OperatorEQ      Operator = "eq"
	OperatorNEQ     Operator = "neq"
	OperatorGTE     Operator = "gte"
	OperatorGT      Operator = "gt"
	OperatorBetween Operator = "between"
	OperatorOutside Operator = "outside"
)

func (o Operator) Valid() bool {
	switch o {
	case OperatorLT, OperatorLTE, OperatorEQ, OperatorNEQ,
		OperatorGTE, OperatorGT, OperatorBetween, OperatorOutside:
		return true
	}
	return false
}

// IsRange reports whether the operator needs both thresholds.
func (o Operator) IsRange() bool {
	return o == OperatorBetween || o == OperatorOutside
}

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// Rank orders severities for channel filtering.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityCritical:
		return 3
	}
	return 0
}

type AlertStatus string

const (
	StatusOpen         AlertStatus = "open"
	StatusAcknowledged AlertStatus = "acknowledged"
	StatusResolved     AlertStatus = "resolved"
	StatusClosed       AlertStatus = "closed"
)

func (s AlertStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusAcknowledged, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Active statuses take part in deduplication.
func (s AlertStatus) Active() bool {
	return s == StatusOpen || s == StatusAcknowledged
}

// CanTransition lists the user-driven status changes. Nothing moves back to open.
func (s AlertStatus) CanTransition(to AlertStatus) bool {
	switch s {
	case StatusOpen:
		return to == StatusAcknowledged || to == StatusResolved || to == StatusClosed
	case StatusAcknowledged:
		return to == StatusResolved || to == StatusClosed
	case StatusResolved:
		return to == StatusClosed
	}
	return false
}

// Dedup keys for the alerts table.
const DedupKeyDeviceOffline = "device_offline"

func RuleDedupKey(ruleID int64) string {
	return fmt.Sprintf("rule:%d", ruleID)
}

const DefaultMessageTemplate = "{label} is {value}{unit} on {device}"

type AlertRule struct {
	ID              int64     `json:"id"`
	TenantID        *string   `json:"tenantId"`
	DeviceTypeID    string    `json:"deviceTypeId"`
	VariableCode    string    `json:"variableCode"`
	Operator        Operator  `json:"operator"`
	Threshold1      float64   `json:"threshold1"`
	Threshold2      *float64  `json:"threshold2,omitempty"`
	Severity        Severity  `json:"severity"`
	MessageTemplate string    `json:"messageTemplate"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsGlobal rules apply to every tenant.
func (r *AlertRule) IsGlobal() bool {
	return r.TenantID == nil
}

// Validate checks the rule shape. The evaluator calls it again before use so
// that rows corrupted after creation are skipped instead of crashing ingestion.
func (r *AlertRule) Validate() error {
	if r.DeviceTypeID == "" {
		return errors.New("alert rule: deviceTypeId is required")
	}
	if r.VariableCode == "" {
		return errors.New("alert rule: variableCode is required")
	}
	if !r.Operator.Valid() {
		return fmt.Errorf("alert rule: invalid operator %q", r.Operator)
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("alert rule: invalid severity %q", r.Severity)
	}
	if r.Operator.IsRange() {
		if r.Threshold2 == nil {
			return fmt.Errorf("alert rule: operator %s requires threshold2", r.Operator)
		}
		if r.Threshold1 > *r.Threshold2 {
			return errors.New("alert rule: threshold1 must not exceed threshold2")
		}
	}
	return nil
}

type Alert struct {
	ID             int64       `json:"id"`
	TenantID       string      `json:"tenantId"`
	DeviceID       string      `json:"deviceId"`
	AlertRuleID    *int64      `json:"alertRuleId"`
	VariableCode   string      `json:"variableCode"`
	Value          *float64    `json:"value"`
	Title          string      `json:"title"`
	Message        string      `json:"message"`
	Severity       Severity    `json:"severity"`
	Status         AlertStatus `json:"status"`
	DedupKey       string      `json:"-"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	AcknowledgedAt *time.Time  `json:"acknowledgedAt,omitempty"`
	ResolvedAt     *time.Time  `json:"resolvedAt,omitempty"`
}

type CreateRuleRequest struct {
	DeviceTypeID    string   `json:"deviceTypeId"`
	VariableCode    string   `json:"variableCode"`
	Operator        Operator `json:"operator"`
	Threshold1      *float64 `json:"threshold1"`
	Threshold2      *float64 `json:"threshold2"`
	Severity        Severity `json:"severity"`
	MessageTemplate string   `json:"messageTemplate"`
	IsActive        *bool    `json:"isActive"`
	Global          bool     `json:"global"`
}

type UpdateRuleRequest struct {
	VariableCode    *string   `json:"variableCode"`
	Operator        *Operator `json:"operator"`
	Threshold1      *float64  `json:"threshold1"`
	Threshold2      *float64  `json:"threshold2"`
	Severity        *Severity `json:"severity"`
	MessageTemplate *string   `json:"messageTemplate"`
	IsActive        *bool     `json:"isActive"`
}

type UpdateAlertRequest struct {
	Status AlertStatus `json:"status"`
}

type AlertFilter struct {
	TenantID string
	Status   AlertStatus
	Severity Severity
	DeviceID string
	Page     int
	Limit    int
}

const (
	DefaultAlertLimit = 20
	MaxAlertLimit     = 100
)

// Offset converts the 1-based page into a row offset.
func (f AlertFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type AlertListResponse struct {
	Data       []Alert `json:"data"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Total      int     `json:"total"`
	TotalPages int     `json:"totalPages"`
}

type AlertStatistics struct {
	BySeverity map[string]int `json:"bySeverity"`
	ByStatus   map[string]int `json:"byStatus"`
	Total      int            `json:"total"`
}
