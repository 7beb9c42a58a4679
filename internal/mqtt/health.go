package mqtt

type HealthStatus struct {
	Connected     bool `json:"connected"`
	Subscriptions int  `json:"subscriptions"`
}

func (c *Client) Health() *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &HealthStatus{
		Connected:     c.connected && c.client.IsConnected(),
		Subscriptions: len(c.handlers),
	}
}
