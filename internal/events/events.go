// Package events defines the realtime event bus used to push tenant events
// to connected dashboards.
package events

import "time"

// Bus fans events out to subscribers of a tenant. Publish must not block the
// caller; implementations drop events they cannot deliver.
type Bus interface {
	Publish(tenantID, eventType string, payload interface{})
}

type Event struct {
	Type      string      `json:"type"`
	TenantID  string      `json:"tenantId"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Nop discards every event. It is used when realtime delivery is disabled.
type Nop struct{}

func (Nop) Publish(string, string, interface{}) {}

// BusFunc adapts a function to Bus.
type BusFunc func(tenantID, eventType string, payload interface{})

func (f BusFunc) Publish(tenantID, eventType string, payload interface{}) {
	f(tenantID, eventType, payload)
}
