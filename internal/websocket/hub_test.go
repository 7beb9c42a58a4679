package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SensorHubAPI/internal/events"
	"SensorHubAPI/internal/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r, r.URL.Query().Get("tenant"), logger.Nop())
	}))

	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, tenant string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?tenant=" + tenant
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_TenantIsolation(t *testing.T) {
	hub, srv := startHub(t)

	a := dial(t, srv, "tenant-a")
	b := dial(t, srv, "tenant-b")
	admin := dial(t, srv, "")

	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("tenant-a", "alert", map[string]int{"id": 1})

	var got events.Event
	a.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, a.ReadJSON(&got))
	assert.Equal(t, "alert", got.Type)
	assert.Equal(t, "tenant-a", got.TenantID)

	admin.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, admin.ReadJSON(&got))
	assert.Equal(t, "tenant-a", got.TenantID)

	b.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	err := b.ReadJSON(&got)
	assert.Error(t, err, "tenant-b must not see tenant-a events")
}

func TestHub_PublishDoesNotBlockWithoutRun(t *testing.T) {
	hub := NewHub(logger.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.Publish("tenant-a", "telemetry", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub, srv := startHub(t)

	conn := dial(t, srv, "tenant-a")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_JoinAndLeaveAfterShutdown(t *testing.T) {
	hub := NewHub(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	client := newClient(hub, nil, "tenant-a", logger.Nop())
	done := make(chan bool)
	go func() {
		joined := hub.join(client)
		hub.leave(client)
		done <- joined
	}()

	select {
	case joined := <-done:
		assert.False(t, joined)
	case <-time.After(2 * time.Second):
		t.Fatal("join or leave blocked on a stopped hub")
	}
}

func TestClient_Handle(t *testing.T) {
	c := newClient(nil, nil, "tenant-a", logger.Nop())

	tests := []struct {
		name     string
		raw      string
		wantType string
	}{
		{"ping", `{"type":"ping"}`, EventPong},
		{"case insensitive", `{"type":" PING "}`, EventPong},
		{"subscribe", `{"type":"subscribe","events":["alert"]}`, EventSubscribed},
		{"unknown", `{"type":"shutdown"}`, EventError},
		{"malformed", `{"type":`, EventError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := c.handle([]byte(tt.raw))
			assert.Equal(t, tt.wantType, reply.Type)
			assert.Equal(t, "tenant-a", reply.TenantID)
		})
	}
}

func TestClient_SubscriptionFilter(t *testing.T) {
	c := newClient(nil, nil, "tenant-a", logger.Nop())
	assert.True(t, c.wants("telemetry"))

	c.handle([]byte(`{"type":"subscribe","events":["alert"," ","device_offline"]}`))
	assert.True(t, c.wants("alert"))
	assert.True(t, c.wants("device_offline"))
	assert.False(t, c.wants("telemetry"))

	c.handle([]byte(`{"type":"unsubscribe"}`))
	assert.True(t, c.wants("telemetry"))
}

func TestHub_ControlMessages(t *testing.T) {
	hub, srv := startHub(t)

	conn := dial(t, srv, "tenant-a")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	var got events.Event
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessagePing}))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventPong, got.Type)
	assert.Equal(t, "tenant-a", got.TenantID)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageSubscribe, Events: []string{"alert"}}))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventSubscribed, got.Type)

	hub.Publish("tenant-a", "telemetry", map[string]int{"seq": 1})
	hub.Publish("tenant-a", "alert", map[string]int{"id": 2})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "alert", got.Type, "unsubscribed telemetry must be skipped")
}
