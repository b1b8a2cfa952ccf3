// Package inventory keeps the device inventory and the outcome of the last
// render for each device.
package inventory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fabric-control/fcc/internal/config"
)

// Device statuses.
const (
	StatusUnknown = "unknown"
	StatusReady   = "ready"
	StatusFailed  = "failed"
)

// Device is one managed switch and its last known render status.
type Device struct {
	ID               string    `json:"id"`
	Driver           string    `json:"driver"`
	Address          string    `json:"address"`
	PhysicalNetworks []string  `json:"physicalNetworks,omitempty"`
	Model            string    `json:"model,omitempty"`
	Status           string    `json:"status"`
	LastRendered     time.Time `json:"lastRendered,omitempty"`
	LastError        string    `json:"lastError,omitempty"`
}

// Manager manages the device inventory.
type Manager struct {
	mu      sync.RWMutex
	devices map[string]*Device
}

// NewManager creates an empty inventory.
func NewManager() *Manager {
	return &Manager{
		devices: make(map[string]*Device),
	}
}

// LoadFromConfig adds every configured device with status unknown.
func (m *Manager) LoadFromConfig(cfg *config.Config) {
	for _, id := range cfg.DeviceIDs() {
		m.Add(id, cfg.Devices[id])
	}
}

// Add inserts or replaces a device. Its status is reset to unknown.
func (m *Manager) Add(deviceID string, dev config.Device) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.devices[deviceID] = &Device{
		ID:               deviceID,
		Driver:           dev.Driver,
		Address:          dev.Address,
		PhysicalNetworks: append([]string(nil), dev.PhysicalNetworks...),
		Status:           StatusUnknown,
	}
}

// List returns a snapshot of all devices sorted by id.
func (m *Manager) List() []Device {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]Device, 0, len(m.devices))
	for _, dev := range m.devices {
		items = append(items, dev.snapshot())
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// GetDevice returns a snapshot of a specific device.
func (m *Manager) GetDevice(deviceID string) (Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dev, exists := m.devices[deviceID]
	if !exists {
		return Device{}, notFound(deviceID)
	}
	return dev.snapshot(), nil
}

// RecordSuccess marks a device ready after a successful render or probe.
func (m *Manager) RecordSuccess(deviceID, model string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, exists := m.devices[deviceID]
	if !exists {
		return notFound(deviceID)
	}

	dev.Status = StatusReady
	if model != "" {
		dev.Model = model
	}
	dev.LastRendered = time.Now()
	dev.LastError = ""
	return nil
}

// RecordFailure marks a device failed and keeps the error text.
func (m *Manager) RecordFailure(deviceID string, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, exists := m.devices[deviceID]
	if !exists {
		return notFound(deviceID)
	}

	dev.Status = StatusFailed
	if cause != nil {
		dev.LastError = cause.Error()
	}
	return nil
}

// RemoveDevice removes a device from the inventory.
func (m *Manager) RemoveDevice(deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.devices[deviceID]; !exists {
		return notFound(deviceID)
	}
	delete(m.devices, deviceID)
	return nil
}

func (d *Device) snapshot() Device {
	c := *d
	c.PhysicalNetworks = append([]string(nil), d.PhysicalNetworks...)
	return c
}

func notFound(deviceID string) error {
	return fmt.Errorf("%w: %s", config.ErrUnknownDevice, deviceID)
}
