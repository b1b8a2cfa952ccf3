package config

import (
	"fmt"
	"strings"
	"time"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validate enforces the configuration rules.
func Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateLog(config.Log); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}

	if err := validateAudit(config.Audit); err != nil {
		return fmt.Errorf("audit validation failed: %w", err)
	}

	if config.RenderTimeout <= 0 {
		return fmt.Errorf("render timeout must be positive, got %v", config.RenderTimeout)
	}
	if config.RenderTimeout > 5*time.Minute {
		return fmt.Errorf("render timeout %v exceeds maximum %v", config.RenderTimeout, 5*time.Minute)
	}

	for _, id := range config.DeviceIDs() {
		if err := validateDevice(id, config.Devices[id]); err != nil {
			return fmt.Errorf("device validation failed: %w", err)
		}
	}

	return nil
}

func validateLog(log LogConfig) error {
	if !contains(validLogLevels, strings.ToLower(log.Level)) {
		return fmt.Errorf("log level %q must be one of %s", log.Level, strings.Join(validLogLevels, ", "))
	}
	if !contains(validLogFormats, strings.ToLower(log.Format)) {
		return fmt.Errorf("log format %q must be one of %s", log.Format, strings.Join(validLogFormats, ", "))
	}
	return nil
}

func validateAudit(audit AuditConfig) error {
	if audit.Dir == "" {
		return fmt.Errorf("audit dir must not be empty")
	}
	if audit.MaxSizeMB < 0 {
		return fmt.Errorf("audit maxSizeMB must be non-negative, got %d", audit.MaxSizeMB)
	}
	if audit.MaxBackups < 0 {
		return fmt.Errorf("audit maxBackups must be non-negative, got %d", audit.MaxBackups)
	}
	if audit.MaxAgeDays < 0 {
		return fmt.Errorf("audit maxAgeDays must be non-negative, got %d", audit.MaxAgeDays)
	}
	return nil
}

func validateDevice(id string, dev Device) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("device id must not be empty")
	}
	if dev.Driver == "" {
		return fmt.Errorf("device %s: driver must not be empty", id)
	}
	if dev.Port < 0 || dev.Port > 65535 {
		return fmt.Errorf("device %s: port %d out of range", id, dev.Port)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
