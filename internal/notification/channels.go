package notification

import (
	"fmt"
	"os"

	"SensorHubAPI/internal/models"

	"gopkg.in/yaml.v3"
)

// ChannelsFile is the optional YAML file listing extra delivery channels.
//
//	webhooks:
//	  - name: ops-slack
//	    url: https://hooks.slack.com/services/...
//	    format: slack
//	    min_severity: warning
//	    tenants: [acme]
type ChannelsFile struct {
	Webhooks []WebhookChannel `yaml:"webhooks"`
}

type WebhookChannel struct {
	Name        string            `yaml:"name"`
	URL         string            `yaml:"url"`
	Format      string            `yaml:"format"`
	MinSeverity models.Severity   `yaml:"min_severity"`
	Tenants     []string          `yaml:"tenants"`
	Headers     map[string]string `yaml:"headers"`
	Disabled    bool              `yaml:"disabled"`
}

// Accepts reports whether the channel wants intent. An empty tenant list
// means every tenant.
func (c WebhookChannel) Accepts(intent models.NotificationIntent) bool {
	if c.Disabled {
		return false
	}
	if c.MinSeverity != "" && intent.Severity.Rank() < c.MinSeverity.Rank() {
		return false
	}
	if len(c.Tenants) == 0 {
		return true
	}
	for _, t := range c.Tenants {
		if t == intent.TenantID {
			return true
		}
	}
	return false
}

// LoadChannels reads path. An empty path yields an empty file.
func LoadChannels(path string) (*ChannelsFile, error) {
	if path == "" {
		return &ChannelsFile{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read channels file: %w", err)
	}

	return ParseChannels(data)
}

func ParseChannels(data []byte) (*ChannelsFile, error) {
	var f ChannelsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse channels file: %w", err)
	}

	for i, ch := range f.Webhooks {
		if ch.Name == "" {
			return nil, fmt.Errorf("webhook %d: name is required", i)
		}
		if ch.URL == "" {
			return nil, fmt.Errorf("webhook %s: url is required", ch.Name)
		}
		if ch.MinSeverity != "" && !ch.MinSeverity.Valid() {
			return nil, fmt.Errorf("webhook %s: invalid min_severity %q", ch.Name, ch.MinSeverity)
		}
	}

	return &f, nil
}
