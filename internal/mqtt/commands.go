package mqtt

import (
	"fmt"
	"strings"
	"time"

	"SensorHubAPI/internal/models"
)

type CommandType string

const (
	CommandRestart      CommandType = "restart"
	CommandConfigUpdate CommandType = "config_update"
	CommandOTAUpdate    CommandType = "ota_update"
	CommandPing         CommandType = "ping"
)

// Envelope is the message a device receives on its command topic. The id
// is echoed back on the result topic.
type Envelope struct {
	ID       int64                  `json:"id"`
	Type     CommandType            `json:"type"`
	Params   map[string]interface{} `json:"params,omitempty"`
	IssuedAt time.Time              `json:"issued_at"`
}

// Result is what a device publishes on its result topic.
type Result struct {
	ID      int64                  `json:"id"`
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func (c *Client) commandTopic(deviceID string) string {
	if strings.Contains(c.cfg.CommandTopic, "%s") {
		return fmt.Sprintf(c.cfg.CommandTopic, deviceID)
	}
	return strings.TrimSuffix(c.cfg.CommandTopic, "/") + "/" + deviceID
}

// PublishCommand sends cmd to the device's command topic.
func (c *Client) PublishCommand(cmd *models.Command) error {
	topic := c.commandTopic(cmd.DeviceID)

	env := Envelope{
		ID:       cmd.ID,
		Type:     CommandType(cmd.CommandType),
		Params:   cmd.Payload,
		IssuedAt: cmd.IssuedAt,
	}

	if env.Type == CommandRestart || env.Type == CommandOTAUpdate {
		c.log.Warn("Sending %s command to device: %s", env.Type, cmd.DeviceID)
	} else {
		c.log.Info("Sending %s command to device: %s", env.Type, cmd.DeviceID)
	}

	if err := c.PublishJSON(topic, env); err != nil {
		return fmt.Errorf("failed to send %s command: %w", env.Type, err)
	}
	return nil
}
