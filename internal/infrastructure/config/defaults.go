package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	// Engine defaults
	if cfg.Engine.DedupWindowSec == 0 {
		cfg.Engine.DedupWindowSec = 15
	}
	if cfg.Engine.PresenceTTLSec == 0 {
		cfg.Engine.PresenceTTLSec = 300
	}
	if cfg.Engine.SweepIntervalSec == 0 {
		cfg.Engine.SweepIntervalSec = 30
	}

	// Reader bridge defaults
	if cfg.Reader.RateLimit == 0 {
		cfg.Reader.RateLimit = 50
	}
	if cfg.Reader.Burst == 0 {
		cfg.Reader.Burst = 100
	}

	// Webhook defaults
	if cfg.Webhook.TimeoutSec == 0 {
		cfg.Webhook.TimeoutSec = 5
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Daemon defaults
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/floorsense-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}
}
