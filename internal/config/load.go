package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when neither a path nor FCC_CONFIG is given.
const DefaultPath = "fcc.yaml"

// Load merges Defaults() + the YAML file + env overrides (FCC_*), then validates.
//
// An empty path falls back to FCC_CONFIG and then DefaultPath. Only a missing
// DefaultPath is tolerated; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	config := Defaults()

	explicit := true
	if path == "" {
		path = GetEnvVar("FCC_CONFIG", "")
	}
	if path == "" {
		path = DefaultPath
		explicit = false
	}

	if _, err := os.Stat(path); err == nil {
		fileConfig, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		config = mergeConfigs(config, fileConfig)
	} else if explicit {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	config.applyDeviceDefaults()

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies FCC_* environment variables to the config.
func applyEnvOverrides(config *Config) error {
	config.Log.Level = GetEnvVar("FCC_LOG_LEVEL", config.Log.Level)
	config.Log.Format = GetEnvVar("FCC_LOG_FORMAT", config.Log.Format)
	config.Audit.Dir = GetEnvVar("FCC_AUDIT_DIR", config.Audit.Dir)

	if val := os.Getenv("FCC_RENDER_TIMEOUT"); val != "" {
		duration, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid FCC_RENDER_TIMEOUT %q: %w", val, err)
		}
		config.RenderTimeout = duration
	}

	return nil
}

// fileConfig is the on-disk shape of Config. Audit settings whose zero value
// is meaningful are pointers so that an explicit 0 or false in the file is
// told apart from an absent key.
type fileConfig struct {
	Devices       map[string]Device `yaml:"devices"`
	Log           LogConfig         `yaml:"log"`
	Audit         fileAuditConfig   `yaml:"audit"`
	RenderTimeout time.Duration     `yaml:"renderTimeout"`
}

type fileAuditConfig struct {
	Dir        string `yaml:"dir"`
	MaxSizeMB  *int   `yaml:"maxSizeMB"`
	MaxBackups *int   `yaml:"maxBackups"`
	MaxAgeDays *int   `yaml:"maxAgeDays"`
	Compress   *bool  `yaml:"compress"`
}

// loadFromFile decodes a YAML configuration file. Unknown keys are rejected.
func loadFromFile(filename string) (*fileConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var config fileConfig
	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &config, nil
}

// mergeConfigs merges file configuration with current configuration.
// File values take precedence over current values when present.
func mergeConfigs(current *Config, file *fileConfig) *Config {
	merged := *current

	if len(file.Devices) > 0 {
		merged.Devices = file.Devices
	}
	if file.Log.Level != "" {
		merged.Log.Level = file.Log.Level
	}
	if file.Log.Format != "" {
		merged.Log.Format = file.Log.Format
	}
	if file.Audit.Dir != "" {
		merged.Audit.Dir = file.Audit.Dir
	}
	if file.Audit.MaxSizeMB != nil {
		merged.Audit.MaxSizeMB = *file.Audit.MaxSizeMB
	}
	if file.Audit.MaxBackups != nil {
		merged.Audit.MaxBackups = *file.Audit.MaxBackups
	}
	if file.Audit.MaxAgeDays != nil {
		merged.Audit.MaxAgeDays = *file.Audit.MaxAgeDays
	}
	if file.Audit.Compress != nil {
		merged.Audit.Compress = *file.Audit.Compress
	}
	if file.RenderTimeout != 0 {
		merged.RenderTimeout = file.RenderTimeout
	}

	return &merged
}

// GetEnvVar returns the value of an environment variable with a default.
func GetEnvVar(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
