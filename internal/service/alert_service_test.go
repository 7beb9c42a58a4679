package service

import (
	"context"
	"testing"

	"SensorHubAPI/internal/apperror"
	"SensorHubAPI/internal/events"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAlertService_ListNormalizesFilter(t *testing.T) {
	st := newStores(t)
	svc := NewAlertService(st.alerts, nil, logger.Nop())
	ctx := context.Background()

	st.alerts.EXPECT().List(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, f models.AlertFilter) ([]models.Alert, int, error) {
		assert.Equal(t, "acme", f.TenantID)
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, models.MaxAlertLimit, f.Limit)
		return nil, 250, nil
	})

	resp, err := svc.List(ctx, acmeViewer, models.AlertFilter{TenantID: "globex", Page: -1, Limit: 5000})
	require.NoError(t, err)
	assert.NotNil(t, resp.Data)
	assert.Equal(t, 3, resp.TotalPages)

	_, err = svc.List(ctx, acmeViewer, models.AlertFilter{Status: "snoozed"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestAlertService_UpdateStatus(t *testing.T) {
	st := newStores(t)
	var published []string
	bus := events.BusFunc(func(tenantID, eventType string, _ interface{}) {
		published = append(published, tenantID+":"+eventType)
	})
	svc := NewAlertService(st.alerts, bus, logger.Nop())
	svc.now = fixedNow
	ctx := context.Background()

	open := &models.Alert{ID: 4, TenantID: "acme", Status: models.StatusOpen}
	st.alerts.EXPECT().GetByID(ctx, "acme", int64(4)).Return(open, nil)
	st.alerts.EXPECT().TransitionStatus(ctx, "acme", int64(4), models.StatusOpen, models.StatusAcknowledged, testNow).
		Return(&models.Alert{ID: 4, TenantID: "acme", Status: models.StatusAcknowledged, AcknowledgedAt: &testNow}, nil)

	updated, err := svc.UpdateStatus(ctx, acmeAdmin, 4, &models.UpdateAlertRequest{Status: models.StatusAcknowledged})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAcknowledged, updated.Status)
	assert.Equal(t, []string{"acme:" + models.EventAlertUpdated}, published)
}

func TestAlertService_UpdateStatusErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("viewer", func(t *testing.T) {
		st := newStores(t)
		svc := NewAlertService(st.alerts, nil, logger.Nop())
		_, err := svc.UpdateStatus(ctx, acmeViewer, 1, &models.UpdateAlertRequest{Status: models.StatusClosed})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("reopen", func(t *testing.T) {
		st := newStores(t)
		svc := NewAlertService(st.alerts, nil, logger.Nop())
		st.alerts.EXPECT().GetByID(ctx, "acme", int64(1)).Return(&models.Alert{ID: 1, Status: models.StatusResolved}, nil)
		_, err := svc.UpdateStatus(ctx, acmeAdmin, 1, &models.UpdateAlertRequest{Status: models.StatusOpen})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("other_tenant", func(t *testing.T) {
		st := newStores(t)
		svc := NewAlertService(st.alerts, nil, logger.Nop())
		st.alerts.EXPECT().GetByID(ctx, "globex", int64(1)).Return(nil, repository.ErrNotFound)
		_, err := svc.UpdateStatus(ctx, globexAdmin, 1, &models.UpdateAlertRequest{Status: models.StatusClosed})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("concurrent_change", func(t *testing.T) {
		st := newStores(t)
		svc := NewAlertService(st.alerts, nil, logger.Nop())
		st.alerts.EXPECT().GetByID(ctx, "acme", int64(1)).Return(&models.Alert{ID: 1, Status: models.StatusOpen}, nil)
		st.alerts.EXPECT().TransitionStatus(ctx, "acme", int64(1), models.StatusOpen, models.StatusResolved, gomock.Any()).
			Return(nil, repository.ErrConflict)
		_, err := svc.UpdateStatus(ctx, acmeAdmin, 1, &models.UpdateAlertRequest{Status: models.StatusResolved})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})
}

func TestAlertService_StatisticsRange(t *testing.T) {
	st := newStores(t)
	svc := NewAlertService(st.alerts, nil, logger.Nop())

	later := testNow.Add(1)
	_, err := svc.Statistics(context.Background(), acmeViewer, &later, &testNow)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
