// Package driver defines the device driver contract for the Fabric Config Container
// and resolves the driver configured for a device.
//
// Drivers implement vendor-specific rendering of configuration fragments. They are
// registered by name in a Registry under a namespace (fcc.drivers) and instantiated
// per device by a Resolver, which reads the driver name from the device configuration.
//
// Vendor errors are normalized to INVALID_RANGE, BUSY, UNAVAILABLE and INTERNAL with
// table-driven token matching, keeping the original vendor error for diagnostics.
package driver
