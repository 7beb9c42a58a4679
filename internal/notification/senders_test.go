package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"sync/atomic"
	"testing"

	"SensorHubAPI/internal/config"
	"SensorHubAPI/internal/events"
	"SensorHubAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailSender(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg string

	s := NewEmailSender(config.SMTPConfig{Host: "smtp.test", Port: 2525, From: "alerts@hub.test"})
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	}

	err := s.Send(context.Background(), models.NotificationIntent{
		Recipients: []string{"a@acme.test", "b@acme.test"},
		Subject:    "[CRITICAL] Temperature above 40",
		Body:       "Temperature is 45 on Boiler",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.test:2525", gotAddr)
	assert.Equal(t, "alerts@hub.test", gotFrom)
	assert.Equal(t, []string{"a@acme.test", "b@acme.test"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: [CRITICAL] Temperature above 40\r\n")
	assert.Contains(t, gotMsg, "To: a@acme.test, b@acme.test\r\n")
	assert.True(t, strings.HasSuffix(gotMsg, "\r\n\r\nTemperature is 45 on Boiler\r\n"))
}

func TestEmailSender_NoRecipients(t *testing.T) {
	s := NewEmailSender(config.SMTPConfig{Host: "smtp.test"})
	err := s.Send(context.Background(), models.NotificationIntent{})
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestSMSSender_ClientCredentials(t *testing.T) {
	var tokenCalls atomic.Int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	var got []smsMessage
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		var m smsMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		got = append(got, m)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer gateway.Close()

	s := NewSMSSender(context.Background(), config.SMSConfig{
		GatewayURL:   gateway.URL,
		TokenURL:     tokenSrv.URL,
		ClientID:     "hub",
		ClientSecret: "secret",
		Sender:       "SensorHub",
	})

	err := s.Send(context.Background(), models.NotificationIntent{
		Recipients: []string{"+15550001", "+15550002"},
		Subject:    "[CRITICAL] Pressure above 9",
		Body:       "Pressure is 9.4 on Pump 2",
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "+15550001", got[0].To)
	assert.Equal(t, "SensorHub", got[0].From)
	assert.Equal(t, "[CRITICAL] Pressure above 9: Pressure is 9.4 on Pump 2", got[0].Message)
	assert.Equal(t, int32(1), tokenCalls.Load(), "token is cached between requests")
}

func TestSMSSender_GatewayError(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer gateway.Close()

	s := NewSMSSender(context.Background(), config.SMSConfig{GatewayURL: gateway.URL})
	err := s.Send(context.Background(), models.NotificationIntent{Recipients: []string{"+1555"}, Subject: "x"})
	assert.ErrorContains(t, err, "status: 502")
}

func TestWebhookSender_FormatsAndFilters(t *testing.T) {
	var slackBody, genericBody map[string]interface{}
	var genericHits atomic.Int32

	slack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&slackBody)
	}))
	defer slack.Close()

	generic := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		genericHits.Add(1)
		assert.Equal(t, "abc", r.Header.Get("X-Token"))
		json.NewDecoder(r.Body).Decode(&genericBody)
	}))
	defer generic.Close()

	s := NewWebhookSender([]WebhookChannel{
		{Name: "ops-slack", URL: slack.URL, Format: "slack"},
		{Name: "acme-hook", URL: generic.URL, Tenants: []string{"acme"}, MinSeverity: models.SeverityCritical, Headers: map[string]string{"X-Token": "abc"}},
	})

	err := s.Send(context.Background(), models.NotificationIntent{
		Channel: models.ChannelWebhook, TenantID: "acme", Severity: models.SeverityWarning, Subject: "S", Body: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, "*S*\nB\n_Severity: warning_", slackBody["text"])
	assert.Zero(t, genericHits.Load(), "below min severity")

	err = s.Send(context.Background(), models.NotificationIntent{
		Channel: models.ChannelWebhook, TenantID: "acme", Severity: models.SeverityCritical, Subject: "S2",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), genericHits.Load())
	assert.Equal(t, "S2", genericBody["subject"])
}

func TestRealtimeSender(t *testing.T) {
	var gotTenant, gotType string
	var gotPayload interface{}

	s := NewRealtimeSender(events.BusFunc(func(tenantID, eventType string, payload interface{}) {
		gotTenant, gotType, gotPayload = tenantID, eventType, payload
	}))

	data := map[string]interface{}{"alert": 1}
	require.NoError(t, s.Send(context.Background(), models.NotificationIntent{TenantID: "acme", Event: models.EventDeviceOffline, Data: data}))

	assert.Equal(t, "acme", gotTenant)
	assert.Equal(t, models.EventDeviceOffline, gotType)
	assert.Equal(t, data, gotPayload)
}
