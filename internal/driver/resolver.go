package driver

import (
	"errors"
	"fmt"
	"log/slog"
)

// DeviceLookup yields the configured driver name for a device.
type DeviceLookup interface {
	DriverName(deviceID string) (string, error)
}

// Lookuper finds the single registry entry for a driver name.
type Lookuper interface {
	Lookup(namespace, name string) (Entry, error)
}

// Resolver instantiates the driver configured for a device. It keeps no state
// between calls: every Resolve consults the configuration and the registry again.
type Resolver struct {
	namespace string
	devices   DeviceLookup
	registry  Lookuper
	logger    *slog.Logger
}

// NewResolver creates a resolver over the default driver namespace.
func NewResolver(devices DeviceLookup, registry Lookuper, logger *slog.Logger) *Resolver {
	return NewResolverInNamespace(Namespace, devices, registry, logger)
}

// NewResolverInNamespace creates a resolver over a specific namespace.
func NewResolverInNamespace(namespace string, devices DeviceLookup, registry Lookuper, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		namespace: namespace,
		devices:   devices,
		registry:  registry,
		logger:    logger,
	}
}

// Namespace returns the registry namespace searched by the resolver.
func (r *Resolver) Namespace() string {
	return r.namespace
}

// String identifies the resolver in log records.
func (r *Resolver) String() string {
	return fmt.Sprintf("driver.Resolver(%s)", r.namespace)
}

// Resolve returns a new driver instance for deviceID.
//
// Lookup failures and construction failures are returned as *EntrypointLoadError.
// Construction failures are logged before they are returned.
func (r *Resolver) Resolve(deviceID string) (Driver, error) {
	driverName, err := r.devices.DriverName(deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up driver for device %s: %w", deviceID, err)
	}

	entry, err := r.registry.Lookup(r.namespace, driverName)
	if err != nil {
		return nil, &EntrypointLoadError{
			EntryPoint: qualify(r.namespace, driverName),
			Err:        err,
		}
	}

	drv, err := load(entry, deviceID)
	if err != nil {
		return nil, r.loadFailure(entry, err)
	}
	return drv, nil
}

// loadFailure logs the failed entry point and converts the cause.
func (r *Resolver) loadFailure(entry Entry, err error) error {
	r.logger.Error("Driver manager failed to load device plugin",
		"manager", r.String(),
		"entrypoint", entry.String(),
		"error", err)
	return &EntrypointLoadError{EntryPoint: entry.String(), Err: err}
}

func load(entry Entry, deviceID string) (drv Driver, err error) {
	defer func() {
		if p := recover(); p != nil {
			drv = nil
			err = fmt.Errorf("driver factory panicked: %v", p)
		}
	}()

	drv, err = entry.Factory(deviceID)
	if err != nil {
		return nil, err
	}
	if drv == nil {
		return nil, errors.New("driver factory returned no driver")
	}
	return drv, nil
}
