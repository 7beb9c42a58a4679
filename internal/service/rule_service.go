package service

import (
	"context"
	"strings"
	"time"

	"SensorHubAPI/internal/apperror"
	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"
)

type RuleService struct {
	rules repository.RuleStore
	types repository.DeviceTypeStore
	log   *logger.Logger
	now   func() time.Time
}

func NewRuleService(rules repository.RuleStore, types repository.DeviceTypeStore, log *logger.Logger) *RuleService {
	return &RuleService{
		rules: rules,
		types: types,
		log:   log.WithComponent("rules"),
		now:   time.Now,
	}
}

func (s *RuleService) Create(ctx context.Context, p *auth.Principal, req *models.CreateRuleRequest) (*models.AlertRule, error) {
	if !p.CanManage() {
		return nil, apperror.Forbidden("only administrators can create alert rules")
	}

	var tenantID *string
	switch {
	case req.Global:
		if !p.IsPlatformAdmin() {
			return nil, apperror.Forbidden("only platform administrators can create global rules")
		}
	case p.TenantID == "":
		return nil, apperror.Validation("set global for rules created without a tenant")
	default:
		t := p.TenantID
		tenantID = &t
	}

	if req.Threshold1 == nil {
		return nil, apperror.Validation("threshold1 is required")
	}

	now := s.now().UTC()
	rule := &models.AlertRule{
		TenantID:        tenantID,
		DeviceTypeID:    strings.TrimSpace(req.DeviceTypeID),
		VariableCode:    strings.TrimSpace(req.VariableCode),
		Operator:        req.Operator,
		Threshold1:      *req.Threshold1,
		Threshold2:      req.Threshold2,
		Severity:        req.Severity,
		MessageTemplate: req.MessageTemplate,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if rule.MessageTemplate == "" {
		rule.MessageTemplate = models.DefaultMessageTemplate
	}

	if err := rule.Validate(); err != nil {
		return nil, apperror.Wrap(err, apperror.KindValidation, err.Error())
	}

	if err := s.requireDeviceType(ctx, rule.DeviceTypeID); err != nil {
		return nil, err
	}

	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, storeError(err, "failed to create alert rule")
	}

	s.log.Info("Alert rule %d created: %s %s %s %v (%s)", rule.ID, rule.DeviceTypeID, rule.VariableCode, rule.Operator, rule.Threshold1, rule.Severity)
	return rule, nil
}

func (s *RuleService) requireDeviceType(ctx context.Context, id string) error {
	exists, err := s.types.Exists(ctx, id)
	if err != nil {
		return apperror.Wrap(err, apperror.KindInternal, "failed to check device type")
	}
	if !exists {
		return apperror.NotFound("device type %s not found", id)
	}
	return nil
}

// Get returns a rule visible to p. Other tenants' rules are reported as not
// found.
func (s *RuleService) Get(ctx context.Context, p *auth.Principal, id int64) (*models.AlertRule, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "alert rule %d not found", id)
	}
	if !p.IsPlatformAdmin() && !rule.IsGlobal() && *rule.TenantID != p.TenantID {
		return nil, apperror.NotFound("alert rule %d not found", id)
	}
	return rule, nil
}

// List returns the tenant's rules and the global rules.
func (s *RuleService) List(ctx context.Context, p *auth.Principal) ([]models.AlertRule, error) {
	rules, err := s.rules.List(ctx, p.Scope())
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to list alert rules")
	}
	if rules == nil {
		rules = []models.AlertRule{}
	}
	return rules, nil
}

// authorizeEdit enforces who may change an existing rule: global rules need
// a platform administrator, tenant rules an administrator of that tenant.
func authorizeEdit(p *auth.Principal, rule *models.AlertRule) error {
	if !p.CanManage() {
		return apperror.Forbidden("only administrators can change alert rules")
	}
	if p.IsPlatformAdmin() {
		return nil
	}
	if rule.IsGlobal() {
		return apperror.Forbidden("global rules can only be changed by platform administrators")
	}
	if *rule.TenantID != p.TenantID {
		return apperror.Forbidden("alert rule %d belongs to another tenant", rule.ID)
	}
	return nil
}

func (s *RuleService) Update(ctx context.Context, p *auth.Principal, id int64, req *models.UpdateRuleRequest) (*models.AlertRule, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "alert rule %d not found", id)
	}
	if err := authorizeEdit(p, rule); err != nil {
		return nil, err
	}

	// Alerts are deduplicated per rule, so an open alert for the old variable
	// would mask breaches of the new one.
	if req.VariableCode != nil && strings.TrimSpace(*req.VariableCode) != rule.VariableCode {
		return nil, apperror.Validation("variableCode cannot be changed; create a new rule instead")
	}
	if req.Operator != nil {
		rule.Operator = *req.Operator
	}
	if req.Threshold1 != nil {
		rule.Threshold1 = *req.Threshold1
	}
	if req.Threshold2 != nil {
		rule.Threshold2 = req.Threshold2
	}
	if req.Severity != nil {
		rule.Severity = *req.Severity
	}
	if req.MessageTemplate != nil {
		rule.MessageTemplate = *req.MessageTemplate
		if rule.MessageTemplate == "" {
			rule.MessageTemplate = models.DefaultMessageTemplate
		}
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if !rule.Operator.IsRange() {
		rule.Threshold2 = nil
	}

	if err := rule.Validate(); err != nil {
		return nil, apperror.Wrap(err, apperror.KindValidation, err.Error())
	}

	rule.UpdatedAt = s.now().UTC()
	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, storeError(err, "failed to update alert rule %d", id)
	}

	s.log.Info("Alert rule %d updated", id)
	return rule, nil
}

func (s *RuleService) Delete(ctx context.Context, p *auth.Principal, id int64) error {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "alert rule %d not found", id)
	}
	if err := authorizeEdit(p, rule); err != nil {
		return err
	}

	if err := s.rules.Delete(ctx, id); err != nil {
		return storeError(err, "failed to delete alert rule %d", id)
	}

	s.log.Info("Alert rule %d deleted", id)
	return nil
}
