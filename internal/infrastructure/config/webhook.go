package config

import "time"

// WebhookConfig configures the outbound task/order lifecycle webhook.
// An empty URL disables delivery entirely.
type WebhookConfig struct {
	URL        string `mapstructure:"url" validate:"omitempty,url"`
	TimeoutSec int    `mapstructure:"timeout_sec" validate:"min=1"`
}

// Enabled reports whether lifecycle events should be delivered
func (c WebhookConfig) Enabled() bool {
	return c.URL != ""
}

// Timeout returns the per-request delivery timeout
func (c WebhookConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}
