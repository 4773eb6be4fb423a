package config

import "errors"

// ConfigError reports an invalid or missing setting, naming the offending
// key so the operator knows what to fix.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string { return "config: " + e.Key + ": " + e.Reason }

// IsConfigError reports whether err is a configuration validation failure.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
