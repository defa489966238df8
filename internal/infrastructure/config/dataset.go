package config

// DatasetConfig points the daemon at the store dataset to seed on boot.
// An empty path loads the built-in demo store.
type DatasetConfig struct {
	Path string `mapstructure:"path"`
}
