package driver

import (
	"context"

	"github.com/fabric-control/fcc/internal/xmlconfig"
)

// Namespace is the registry namespace holding device drivers.
const Namespace = "fcc.drivers"

// Driver defines the southbound contract every device driver implements.
type Driver interface {
	// GetDeviceID returns the device this driver instance was created for.
	GetDeviceID() string

	// GetModel returns the device model or platform name.
	GetModel() string

	// RenderConfig returns the configuration document for the fragments.
	// Fragments must not be modified.
	RenderConfig(ctx context.Context, fragments []xmlconfig.Fragment) (string, error)
}

// Base provides common functionality for driver implementations.
type Base struct {
	// DeviceID identifies the device this driver controls
	DeviceID string

	// Model identifies the device model
	Model string

	// Status indicates the current driver status
	Status string
}

// GetDeviceID returns the device identifier.
func (b *Base) GetDeviceID() string {
	return b.DeviceID
}

// GetModel returns the device model.
func (b *Base) GetModel() string {
	return b.Model
}

// GetStatus returns the driver status.
func (b *Base) GetStatus() string {
	return b.Status
}
