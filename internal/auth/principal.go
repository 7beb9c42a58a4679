// Package auth issues and verifies credentials and carries the caller's
// identity through request contexts.
package auth

import (
	"context"
)

type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleTenantAdmin   Role = "tenant_admin"
	RoleViewer        Role = "viewer"
	RoleIngest        Role = "ingest"
)

func (r Role) Valid() bool {
	switch r {
	case RolePlatformAdmin, RoleTenantAdmin, RoleViewer, RoleIngest:
		return true
	}
	return false
}

// Principal is the authenticated caller of a request.
type Principal struct {
	Subject  string `json:"subject"`
	TenantID string `json:"tenantId"`
	Role     Role   `json:"role"`
	APIKeyID string `json:"apiKeyId,omitempty"`
}

// Scope is the tenant filter applied to reads. Platform administrators see
// every tenant and get the empty scope.
func (p *Principal) Scope() string {
	if p.Role == RolePlatformAdmin {
		return ""
	}
	return p.TenantID
}

func (p *Principal) IsPlatformAdmin() bool {
	return p.Role == RolePlatformAdmin
}

// CanManage reports whether p may change resources of its tenant.
func (p *Principal) CanManage() bool {
	return p.Role == RolePlatformAdmin || p.Role == RoleTenantAdmin
}

// Can reports whether p holds one of roles.
func (p *Principal) Can(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by the authentication middleware.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
