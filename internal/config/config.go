package config

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownDevice is returned when a device id is not present in the configuration.
var ErrUnknownDevice = errors.New("unknown device")

// DefaultSSHPort is used for devices that do not set a port.
const DefaultSSHPort = 22

// Config is the process configuration.
type Config struct {
	Devices       map[string]Device `yaml:"devices"`
	Log           LogConfig         `yaml:"log"`
	Audit         AuditConfig       `yaml:"audit"`
	RenderTimeout time.Duration     `yaml:"renderTimeout"`
}

// Device holds the settings of one managed switch. PhysicalNetworks names the
// provider networks the switch serves.
type Device struct {
	Driver           string   `yaml:"driver"`
	Address          string   `yaml:"address"`
	Port             int      `yaml:"port,omitempty"`
	PhysicalNetworks []string `yaml:"physicalNetworks,omitempty"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AuditConfig controls where the audit trail is written and how it rotates.
type AuditConfig struct {
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Devices: map[string]Device{},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Audit: AuditConfig{
			Dir:        "logs",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		RenderTimeout: 10 * time.Second,
	}
}

// Device returns the settings of the given device.
func (c *Config) Device(deviceID string) (Device, error) {
	dev, ok := c.Devices[deviceID]
	if !ok {
		return Device{}, fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	return dev, nil
}

// DriverName returns the driver configured for the given device.
func (c *Config) DriverName(deviceID string) (string, error) {
	dev, err := c.Device(deviceID)
	if err != nil {
		return "", err
	}
	return dev.Driver, nil
}

// DeviceIDs returns the configured device ids in sorted order.
func (c *Config) DeviceIDs() []string {
	ids := make([]string, 0, len(c.Devices))
	for id := range c.Devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Config) applyDeviceDefaults() {
	for id, dev := range c.Devices {
		if dev.Port == 0 {
			dev.Port = DefaultSSHPort
		}
		c.Devices[id] = dev
	}
}
