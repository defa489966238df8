package config

// ReaderConfig throttles the websocket RFID reader bridge. Each reader
// connection gets its own token bucket so one chatty antenna cannot
// starve the rest.
type ReaderConfig struct {
	// RateLimit is the sustained reads-per-second allowed per connection
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`
	// Burst is the bucket depth for short read bursts
	Burst int `mapstructure:"burst" validate:"min=0"`
}
