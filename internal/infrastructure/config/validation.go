package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator for the struct-tag pass.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator over the config struct tags.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks a struct against its validation tags.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Field(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig runs the tag pass plus the cross-field rules the tag
// language cannot express.
func ValidateConfig(cfg *Config) error {
	if err := NewValidator().Validate(cfg); err != nil {
		return err
	}

	// A dedup window at or past the presence TTL swallows the re-reads
	// that keep a tag alive.
	if cfg.Engine.DedupWindowSec >= cfg.Engine.PresenceTTLSec {
		return fmt.Errorf("engine.dedup_window_sec (%d) must be below engine.presence_ttl_sec (%d)",
			cfg.Engine.DedupWindowSec, cfg.Engine.PresenceTTLSec)
	}

	// A rate-limited reader with no bucket depth rejects every frame.
	if cfg.Reader.RateLimit > 0 && cfg.Reader.Burst < 1 {
		return fmt.Errorf("reader.burst must be at least 1 when reader.rate_limit is set")
	}

	if cfg.Logging.Output == "file" && cfg.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path is required when logging.output is 'file'")
	}

	return nil
}
