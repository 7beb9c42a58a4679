package mqtt

import (
	"context"
	"errors"
	"testing"

	"SensorHubAPI/internal/config"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchTopic(t *testing.T) {
	tests := []struct {
		pattern, topic string
		want           bool
	}{
		{"devices/+/telemetry", "devices/d1/telemetry", true},
		{"devices/+/telemetry", "devices/d1/heartbeat", false},
		{"devices/+/telemetry", "devices/d1/telemetry/extra", false},
		{"devices/#", "devices/d1/telemetry", true},
		{"devices/#", "other/d1", false},
		{"devices/+", "devices", false},
		{"a/b", "a/b", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchTopic(tt.pattern, tt.topic), "%s vs %s", tt.pattern, tt.topic)
	}
}

func TestWildcardValue(t *testing.T) {
	id, ok := WildcardValue("devices/+/telemetry", "devices/boiler-7/telemetry")
	assert.True(t, ok)
	assert.Equal(t, "boiler-7", id)

	_, ok = WildcardValue("devices/+/telemetry", "devices/boiler-7/result")
	assert.False(t, ok)
}

func TestTopicKind(t *testing.T) {
	assert.Equal(t, "telemetry", topicKind("devices/+/telemetry"))
	assert.Equal(t, "devices", topicKind("devices/#"))
}

type fakeIngester struct {
	deviceID  string
	payload   string
	heartbeat string
	resp      *models.IngestResponse
	err       error
}

func (f *fakeIngester) IngestFromDevice(_ context.Context, deviceID string, payload []byte) (*models.IngestResponse, error) {
	f.deviceID, f.payload = deviceID, string(payload)
	return f.resp, f.err
}

func (f *fakeIngester) Heartbeat(_ context.Context, deviceID string) error {
	f.heartbeat = deviceID
	return f.err
}

type fakeResults struct {
	deviceID string
	id       int64
	success  bool
	data     map[string]interface{}
}

func (f *fakeResults) ProcessResult(_ context.Context, deviceID string, id int64, success bool, data map[string]interface{}) error {
	f.deviceID, f.id, f.success, f.data = deviceID, id, success, data
	return nil
}

func TestTelemetryHandler(t *testing.T) {
	in := &fakeIngester{resp: &models.IngestResponse{Success: true, Accepted: 2}}
	h := TelemetryHandler("devices/+/telemetry", in)

	require.NoError(t, h(context.Background(), "devices/d1/telemetry", []byte(`{"readings":[]}`)))
	assert.Equal(t, "d1", in.deviceID)
	assert.Equal(t, `{"readings":[]}`, in.payload)

	in.resp = &models.IngestResponse{Accepted: 1, Rejected: 1}
	assert.ErrorContains(t, h(context.Background(), "devices/d1/telemetry", nil), "1 of 2 readings rejected")

	in.err = errors.New("device not found")
	assert.ErrorContains(t, h(context.Background(), "devices/d1/telemetry", nil), "device not found")
}

func TestHeartbeatHandler(t *testing.T) {
	in := &fakeIngester{}
	h := HeartbeatHandler("devices/+/heartbeat", in)

	require.NoError(t, h(context.Background(), "devices/pump-2/heartbeat", nil))
	assert.Equal(t, "pump-2", in.heartbeat)
}

func TestResultHandler(t *testing.T) {
	res := &fakeResults{}
	h := ResultHandler("devices/+/result", res)

	err := h(context.Background(), "devices/d9/result", []byte(`{"id":42,"success":false,"message":"busy","data":{"retry":true}}`))
	require.NoError(t, err)
	assert.Equal(t, "d9", res.deviceID)
	assert.Equal(t, int64(42), res.id)
	assert.False(t, res.success)
	assert.Equal(t, map[string]interface{}{"success": false, "message": "busy", "retry": true}, res.data)

	assert.ErrorContains(t, h(context.Background(), "devices/d9/result", []byte(`{"success":true}`)), "has no id")
	assert.ErrorContains(t, h(context.Background(), "devices/d9/result", []byte(`nope`)), "invalid command result")
}

func TestCommandTopic(t *testing.T) {
	c, err := NewClient(ClientConfig{
		MQTT:   &config.MQTTConfig{Broker: "localhost", Port: 1883, CommandTopic: "devices/%s/cmd"},
		Logger: logger.Nop(),
	})
	require.NoError(t, err)
	assert.Equal(t, "devices/d1/cmd", c.commandTopic("d1"))

	c.cfg.CommandTopic = "cmd/"
	assert.Equal(t, "cmd/d1", c.commandTopic("d1"))

	assert.Error(t, c.PublishCommand(&models.Command{DeviceID: "d1", CommandType: "ping"}), "not connected")
}

func TestHandleMessage_RecoversPanic(t *testing.T) {
	c, err := NewClient(ClientConfig{MQTT: &config.MQTTConfig{Broker: "localhost", Port: 1883}, Logger: logger.Nop()})
	require.NoError(t, err)

	called := false
	c.handlers["devices/+/telemetry"] = func(context.Context, string, []byte) error {
		called = true
		panic("boom")
	}

	assert.NotPanics(t, func() { c.handleMessage("devices/d1/telemetry", nil) })
	assert.True(t, called)
}
