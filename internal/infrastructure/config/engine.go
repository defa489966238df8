package config

import (
	"time"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// EngineConfig holds the inventory engine tuning knobs
type EngineConfig struct {
	// DedupWindowSec suppresses repeat RFID reads of the same tag at the
	// same antenna inside this window
	DedupWindowSec int `mapstructure:"dedup_window_sec" validate:"min=0"`
	// PresenceTTLSec ages RFID presence out of zone counts after this
	// many seconds without a fresh read
	PresenceTTLSec int `mapstructure:"presence_ttl_sec" validate:"min=1"`
	// SweepIntervalSec is the period of the background zone sweep that
	// expires stale presence even when no reads arrive
	SweepIntervalSec int  `mapstructure:"sweep_interval_sec" validate:"min=1"`
	AutoSweep        bool `mapstructure:"auto_sweep"`
}

// Params converts the configured windows into engine parameters
func (c EngineConfig) Params() shared.Params {
	return shared.Params{
		DedupWindow: time.Duration(c.DedupWindowSec) * time.Second,
		PresenceTTL: time.Duration(c.PresenceTTLSec) * time.Second,
	}
}

// SweepInterval returns the background sweep period as a duration
func (c EngineConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}
