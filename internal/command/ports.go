package command

import (
	"context"

	"github.com/fabric-control/fcc/internal/driver"
	"github.com/fabric-control/fcc/internal/inventory"
	"github.com/fabric-control/fcc/internal/xmlconfig"
)

// OrchestratorPort defines the minimal interface the CLI needs from the orchestrator.
type OrchestratorPort interface {
	RenderConfig(ctx context.Context, deviceID string, fragments []xmlconfig.Fragment) (string, error)
	Probe(ctx context.Context, deviceID string) (*ProbeResult, error)
}

// DriverResolver returns a new driver instance for a device.
type DriverResolver interface {
	Resolve(deviceID string) (driver.Driver, error)
}

// Inventory records the outcome of operations per device.
type Inventory interface {
	GetDevice(deviceID string) (inventory.Device, error)
	RecordSuccess(deviceID, model string) error
	RecordFailure(deviceID string, cause error) error
}

// ProbeResult describes the driver a device resolves to.
type ProbeResult struct {
	DeviceID string `json:"deviceId"`
	Model    string `json:"model"`
	Status   string `json:"status,omitempty"`
	// Address is the management endpoint, for drivers that have one.
	Address string `json:"address,omitempty"`
}
