// Package pica8 provides the driver for Pica8 PicOS switches.
//
// The driver checks configuration fragments against PicOS limits and renders
// the candidate configuration document. It does not open a session to the
// switch; the rendered candidate is kept for the caller to push.
package pica8

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"sync"

	"github.com/fabric-control/fcc/internal/config"
	"github.com/fabric-control/fcc/internal/driver"
	"github.com/fabric-control/fcc/internal/netconfig"
	"github.com/fabric-control/fcc/internal/xmlconfig"
)

// Name is the driver name used in device configuration.
const Name = "pica8"

// Target is the registry target string of the pica8 driver.
const Target = "github.com/fabric-control/fcc/internal/driver/pica8.New"

// PicOS limits.
const (
	MinVLANID = 1
	MaxVLANID = 4094
	MinMTU    = 1280
	MaxMTU    = 9216
)

var interfaceName = regexp.MustCompile(`^((ge|te|xe|qe)-\d+/\d+/\d+|ae\d+)$`)

// DeviceSource returns the configuration of a device.
type DeviceSource interface {
	Device(deviceID string) (config.Device, error)
}

// Driver renders configuration for one PicOS switch.
type Driver struct {
	driver.Base

	mu            sync.RWMutex
	address       string
	port          int
	lastCandidate string

	// Fault injection: "ReturnBusy", "ReturnUnavailable", "ReturnInvalidRange", ""
	faultMode string
}

// NewFactory returns a driver.Factory that builds pica8 drivers from the
// device configuration.
func NewFactory(devices DeviceSource) driver.Factory {
	return func(deviceID string) (driver.Driver, error) {
		dev, err := devices.Device(deviceID)
		if err != nil {
			return nil, err
		}
		d, err := New(deviceID, dev)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// New creates a pica8 driver for the device.
func New(deviceID string, dev config.Device) (*Driver, error) {
	if dev.Address == "" {
		return nil, fmt.Errorf("device %s has no address", deviceID)
	}

	port := dev.Port
	if port == 0 {
		port = config.DefaultSSHPort
	}

	return &Driver{
		Base: driver.Base{
			DeviceID: deviceID,
			Model:    "Pica8-PicOS",
			Status:   "online",
		},
		address: dev.Address,
		port:    port,
	}, nil
}

// Address returns the management endpoint of the switch as host:port.
func (d *Driver) Address() string {
	return net.JoinHostPort(d.address, strconv.Itoa(d.port))
}

// RenderConfig validates the fragments against PicOS limits and renders the
// candidate configuration.
func (d *Driver) RenderConfig(ctx context.Context, fragments []xmlconfig.Fragment) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if err := d.checkFaultMode(); err != nil {
		return "", driver.NormalizeVendorErrorWithVendor(err, nil, Name)
	}

	for i, f := range fragments {
		if err := validate(f); err != nil {
			return "", driver.NormalizeVendorErrorWithVendor(err, map[string]int{"index": i}, Name)
		}
	}

	doc, err := xmlconfig.Serialize(fragments)
	if err != nil {
		return "", err
	}

	d.mu.Lock()
	d.lastCandidate = doc
	d.mu.Unlock()

	return doc, nil
}

// LastCandidate returns the most recently rendered document.
func (d *Driver) LastCandidate() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastCandidate
}

// SetFaultMode sets the fault injection mode.
func (d *Driver) SetFaultMode(mode string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.faultMode = mode
}

// ClearFaultMode clears the fault injection mode.
func (d *Driver) ClearFaultMode() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.faultMode = ""
}

func (d *Driver) checkFaultMode() error {
	d.mu.RLock()
	mode := d.faultMode
	d.mu.RUnlock()

	switch mode {
	case "ReturnBusy":
		return errors.New("DATABASE_LOCKED: configuration database is locked by another session")
	case "ReturnUnavailable":
		return errors.New("DEVICE_UNREACHABLE: no route to management address")
	case "ReturnInvalidRange":
		return errors.New("INVALID_VALUE: simulated invalid value")
	default:
		return nil
	}
}

// validate checks the fragment types PicOS knows limits for. Other fragments
// are left to the serializer, which rejects nil ones with a ConfigurationError.
func validate(f xmlconfig.Fragment) error {
	switch v := f.(type) {
	case netconfig.VLAN:
		return validateVLAN(v)
	case *netconfig.VLAN:
		if v != nil {
			return validateVLAN(*v)
		}
	case netconfig.Port:
		return validatePort(v)
	case *netconfig.Port:
		if v != nil {
			return validatePort(*v)
		}
	}
	return nil
}

func validateVLAN(v netconfig.VLAN) error {
	if v.ID < MinVLANID || v.ID > MaxVLANID {
		return fmt.Errorf("VLAN_ID_OUT_OF_RANGE: vlan %d is outside valid range [%d, %d]", v.ID, MinVLANID, MaxVLANID)
	}
	return nil
}

func validatePort(p netconfig.Port) error {
	if !interfaceName.MatchString(p.Name) {
		return fmt.Errorf("INVALID_INTERFACE_NAME: %q is not a PicOS interface", p.Name)
	}
	if p.Delete {
		return nil
	}

	switch p.Mode {
	case "", netconfig.ModeAccess, netconfig.ModeTrunk:
	default:
		return fmt.Errorf("INVALID_PORT_MODE: %q on %s", p.Mode, p.Name)
	}

	if p.MTU != 0 && (p.MTU < MinMTU || p.MTU > MaxMTU) {
		return fmt.Errorf("MTU_OUT_OF_RANGE: mtu %d on %s is outside valid range [%d, %d]", p.MTU, p.Name, MinMTU, MaxMTU)
	}

	if p.NativeVLAN != 0 {
		if err := validateVLAN(netconfig.VLAN{ID: p.NativeVLAN}); err != nil {
			return err
		}
	}
	for _, id := range p.Members {
		if err := validateVLAN(netconfig.VLAN{ID: id}); err != nil {
			return err
		}
	}
	return nil
}
