package notification

import (
	"context"
	"errors"

	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"
)

// TenantRecipients resolves addresses from the tenant's notification contacts.
// Intents without a tenant go to the platform administrators.
type TenantRecipients struct {
	tenants     repository.TenantStore
	adminEmails []string
}

func NewTenantRecipients(tenants repository.TenantStore, adminEmails []string) *TenantRecipients {
	return &TenantRecipients{tenants: tenants, adminEmails: adminEmails}
}

func (r *TenantRecipients) Resolve(ctx context.Context, intent models.NotificationIntent) ([]string, error) {
	if intent.TenantID == "" {
		if intent.Channel == models.ChannelEmail {
			return r.adminEmails, nil
		}
		return nil, nil
	}

	tenant, err := r.tenants.GetByID(ctx, intent.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	switch intent.Channel {
	case models.ChannelEmail:
		if tenant.NotificationEmail != "" {
			return []string{tenant.NotificationEmail}, nil
		}
	case models.ChannelSMS:
		if tenant.NotificationPhone != "" {
			return []string{tenant.NotificationPhone}, nil
		}
	}
	return nil, nil
}
