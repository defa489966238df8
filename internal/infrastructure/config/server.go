package config

import "fmt"

// ServerConfig holds the HTTP API server settings
type ServerConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	// AllowedOrigins restricts websocket upgrades to the listed Origin
	// values. Empty means any origin, for single-host deployments.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Address returns the host:port pair the server binds to
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
