package notification

import (
	"context"
	"errors"
	"testing"

	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTenantRecipients(t *testing.T) {
	ctrl := gomock.NewController(t)
	tenants := repository.NewMockTenantStore(ctrl)
	ctx := context.Background()

	acme := &models.Tenant{ID: "acme", NotificationEmail: "ops@acme.test", NotificationPhone: "+1555"}
	tenants.EXPECT().GetByID(ctx, "acme").Return(acme, nil).Times(2)
	tenants.EXPECT().GetByID(ctx, "gone").Return(nil, repository.ErrNotFound)
	tenants.EXPECT().GetByID(ctx, "broken").Return(nil, errors.New("db down"))

	r := NewTenantRecipients(tenants, []string{"admin@hub.test"})

	got, err := r.Resolve(ctx, models.NotificationIntent{Channel: models.ChannelEmail, TenantID: "acme"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ops@acme.test"}, got)

	got, err = r.Resolve(ctx, models.NotificationIntent{Channel: models.ChannelSMS, TenantID: "acme"})
	require.NoError(t, err)
	assert.Equal(t, []string{"+1555"}, got)

	got, err = r.Resolve(ctx, models.NotificationIntent{Channel: models.ChannelEmail})
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@hub.test"}, got)

	got, err = r.Resolve(ctx, models.NotificationIntent{Channel: models.ChannelEmail, TenantID: "gone"})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = r.Resolve(ctx, models.NotificationIntent{Channel: models.ChannelEmail, TenantID: "broken"})
	assert.ErrorContains(t, err, "db down")
}
