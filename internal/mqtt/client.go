package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"SensorHubAPI/internal/config"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/metrics"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type Client struct {
	client    mqtt.Client
	cfg       *config.MQTTConfig
	log       *logger.Logger
	handlers  map[string]MessageHandler
	mu        sync.RWMutex
	connected bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// MessageHandler processes one message. The context is cancelled when the
// client disconnects.
type MessageHandler func(ctx context.Context, topic string, payload []byte) error

type ClientConfig struct {
	MQTT   *config.MQTTConfig
	Logger *logger.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.MQTT == nil {
		return nil, fmt.Errorf("mqtt config cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		cfg:      cfg.MQTT,
		log:      cfg.Logger.WithComponent("mqtt"),
		handlers: make(map[string]MessageHandler),
		ctx:      ctx,
		cancel:   cancel,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Broker, cfg.MQTT.Port))
	opts.SetClientID(cfg.MQTT.ClientID)
	opts.SetKeepAlive(cfg.MQTT.KeepAlive)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(cfg.MQTT.ConnectTimeout)
	opts.SetAutoReconnect(cfg.MQTT.AutoReconnect)
	opts.SetCleanSession(true)

	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}

	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	opts.SetReconnectingHandler(c.onReconnecting)

	c.client = mqtt.NewClient(opts)

	return c, nil
}

func (c *Client) Connect() error {
	c.log.Info("Connecting to MQTT broker: %s:%d", c.cfg.Broker, c.cfg.Port)

	token := c.client.Connect()
	if !token.WaitTimeout(c.cfg.ConnectTimeout) {
		return fmt.Errorf("connection timeout after %v", c.cfg.ConnectTimeout)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	c.log.Info("Successfully connected to MQTT broker")
	return nil
}

func (c *Client) Disconnect() {
	c.log.Info("Disconnecting from MQTT broker")

	c.cancel()

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.client.Disconnect(250)

	c.log.Info("Disconnected from MQTT broker")
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && c.client.IsConnected()
}

func (c *Client) Subscribe(topic string, handler MessageHandler) error {
	if !c.IsConnected() {
		return fmt.Errorf("not connected to broker")
	}

	c.mu.Lock()
	c.handlers[topic] = handler
	c.mu.Unlock()

	c.log.Debug("Subscribing to topic: %s (QoS: %d)", topic, c.cfg.QoS)

	token := c.client.Subscribe(topic, c.cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		c.handleMessage(msg.Topic(), msg.Payload())
	})

	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout for topic: %s", topic)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe failed for topic %s: %w", topic, err)
	}

	c.log.Info("Successfully subscribed to topic: %s", topic)
	return nil
}

func (c *Client) Publish(topic string, payload []byte) error {
	if !c.IsConnected() {
		return fmt.Errorf("not connected to broker")
	}

	c.log.Debug("Publishing to topic: %s (size: %d bytes)", topic, len(payload))

	token := c.client.Publish(topic, c.cfg.QoS, c.cfg.RetainMessages, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout for topic: %s", topic)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("publish failed for topic %s: %w", topic, err)
	}

	return nil
}

func (c *Client) PublishJSON(topic string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return c.Publish(topic, payload)
}

func (c *Client) handlerFor(topic string) (string, MessageHandler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if h, ok := c.handlers[topic]; ok {
		return topic, h, true
	}
	for pattern, h := range c.handlers {
		if matchTopic(pattern, topic) {
			return pattern, h, true
		}
	}
	return "", nil, false
}

func (c *Client) handleMessage(topic string, payload []byte) {
	c.log.Debug("Received message on topic: %s (size: %d bytes)", topic, len(payload))

	pattern, handler, ok := c.handlerFor(topic)
	if !ok {
		c.log.Warn("No handler found for topic: %s", topic)
		metrics.MQTTMessagesTotal.WithLabelValues("unrouted", "dropped").Inc()
		return
	}

	kind := topicKind(pattern)

	defer func() {
		if r := recover(); r != nil {
			metrics.PanicsRecovered.WithLabelValues("mqtt").Inc()
			metrics.MQTTMessagesTotal.WithLabelValues(kind, "error").Inc()
			c.log.Error("Handler panic for topic %s: %v\n%s", topic, r, debug.Stack())
		}
	}()

	if err := handler(c.ctx, topic, payload); err != nil {
		metrics.MQTTMessagesTotal.WithLabelValues(kind, "error").Inc()
		c.log.Error("Handler error for topic %s: %v", topic, err)
		return
	}
	metrics.MQTTMessagesTotal.WithLabelValues(kind, "ok").Inc()
}

func (c *Client) onConnect(client mqtt.Client) {
	c.mu.Lock()
	c.connected = true
	topics := make([]string, 0, len(c.handlers))
	for topic := range c.handlers {
		topics = append(topics, topic)
	}
	c.mu.Unlock()

	c.log.Info("MQTT connection established")

	for _, topic := range topics {
		c.log.Debug("Re-subscribing to topic: %s", topic)
		token := client.Subscribe(topic, c.cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
			c.handleMessage(msg.Topic(), msg.Payload())
		})
		if token.Wait() && token.Error() != nil {
			c.log.Error("Failed to re-subscribe to %s: %v", topic, token.Error())
		}
	}
}

func (c *Client) onConnectionLost(_ mqtt.Client, err error) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.log.Error("MQTT connection lost: %v", err)
}

func (c *Client) onReconnecting(mqtt.Client, *mqtt.ClientOptions) {
	c.log.Warn("Attempting to reconnect to MQTT broker...")
}

// matchTopic implements MQTT filter matching for "+" and a trailing "#".
func matchTopic(pattern, topic string) bool {
	if pattern == topic {
		return true
	}

	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range patternParts {
		if part == "#" {
			return i == len(patternParts)-1
		}
		if i >= len(topicParts) {
			return false
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}

	return len(patternParts) == len(topicParts)
}

// WildcardValue returns the topic level matched by the first "+" of pattern,
// e.g. the device id of "devices/+/telemetry".
func WildcardValue(pattern, topic string) (string, bool) {
	if !matchTopic(pattern, topic) {
		return "", false
	}

	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")
	for i, part := range patternParts {
		if part == "+" && i < len(topicParts) && topicParts[i] != "" {
			return topicParts[i], true
		}
	}
	return "", false
}

// topicKind labels metrics by the last literal level of a filter.
func topicKind(pattern string) string {
	parts := strings.Split(pattern, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if p := parts[i]; p != "+" && p != "#" && p != "" {
			return p
		}
	}
	return "other"
}
