package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"SensorHubAPI/internal/models"
)

// TelemetryIngester is the part of the telemetry service the broker feeds.
type TelemetryIngester interface {
	IngestFromDevice(ctx context.Context, deviceID string, payload []byte) (*models.IngestResponse, error)
	Heartbeat(ctx context.Context, deviceID string) error
}

type ResultProcessor interface {
	ProcessResult(ctx context.Context, deviceID string, commandID int64, success bool, result map[string]interface{}) error
}

// TelemetryHandler ingests readings published on pattern, taking the device
// id from the topic's "+" level.
func TelemetryHandler(pattern string, ingest TelemetryIngester) MessageHandler {
	return func(ctx context.Context, topic string, payload []byte) error {
		deviceID, ok := WildcardValue(pattern, topic)
		if !ok {
			return fmt.Errorf("no device id in topic %s", topic)
		}

		resp, err := ingest.IngestFromDevice(ctx, deviceID, payload)
		if err != nil {
			return err
		}
		if resp.Rejected > 0 {
			return fmt.Errorf("device %s: %d of %d readings rejected", deviceID, resp.Rejected, resp.Accepted+resp.Rejected)
		}
		return nil
	}
}

func HeartbeatHandler(pattern string, ingest TelemetryIngester) MessageHandler {
	return func(ctx context.Context, topic string, _ []byte) error {
		deviceID, ok := WildcardValue(pattern, topic)
		if !ok {
			return fmt.Errorf("no device id in topic %s", topic)
		}
		return ingest.Heartbeat(ctx, deviceID)
	}
}

func ResultHandler(pattern string, results ResultProcessor) MessageHandler {
	return func(ctx context.Context, topic string, payload []byte) error {
		deviceID, ok := WildcardValue(pattern, topic)
		if !ok {
			return fmt.Errorf("no device id in topic %s", topic)
		}

		var res Result
		if err := json.Unmarshal(payload, &res); err != nil {
			return fmt.Errorf("invalid command result: %w", err)
		}
		if res.ID == 0 {
			return fmt.Errorf("command result from %s has no id", deviceID)
		}

		data := map[string]interface{}{"success": res.Success}
		if res.Message != "" {
			data["message"] = res.Message
		}
		for k, v := range res.Data {
			data[k] = v
		}

		return results.ProcessResult(ctx, deviceID, res.ID, res.Success, data)
	}
}

// Route subscribes the device topics configured for the client.
func (c *Client) Route(ingest TelemetryIngester, results ResultProcessor) error {
	subs := []struct {
		topic   string
		handler MessageHandler
	}{
		{c.cfg.TelemetryTopic, TelemetryHandler(c.cfg.TelemetryTopic, ingest)},
		{c.cfg.HeartbeatTopic, HeartbeatHandler(c.cfg.HeartbeatTopic, ingest)},
		{c.cfg.ResultTopic, ResultHandler(c.cfg.ResultTopic, results)},
	}

	for _, s := range subs {
		if s.topic == "" {
			continue
		}
		if err := c.Subscribe(s.topic, s.handler); err != nil {
			return err
		}
	}
	return nil
}
