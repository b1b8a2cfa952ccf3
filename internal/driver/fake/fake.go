// Package fake provides an in-memory device driver for testing.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/fabric-control/fcc/internal/driver"
	"github.com/fabric-control/fcc/internal/xmlconfig"
)

// Target is the registry target string of the fake driver.
const Target = "github.com/fabric-control/fcc/internal/driver/fake.New"

// FakeDriver implements driver.Driver for testing purposes.
type FakeDriver struct {
	driver.Base

	mu       sync.Mutex
	rendered []string

	// Error simulation
	simulateErrors bool
	errorType      string
}

// New creates a fake driver. It matches driver.Factory.
func New(deviceID string) (driver.Driver, error) {
	return NewFakeDriver(deviceID), nil
}

// NewFakeDriver creates a new fake driver for testing.
func NewFakeDriver(deviceID string) *FakeDriver {
	return &FakeDriver{
		Base: driver.Base{
			DeviceID: deviceID,
			Model:    "Fake-Switch-Test",
			Status:   "online",
		},
	}
}

// RenderConfig serializes the fragments and records the document.
func (f *FakeDriver) RenderConfig(ctx context.Context, fragments []xmlconfig.Fragment) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.simulateErrors {
		return "", f.getSimulatedError()
	}

	doc, err := xmlconfig.Serialize(fragments)
	if err != nil {
		return "", err
	}
	f.rendered = append(f.rendered, doc)
	return doc, nil
}

// SetErrorSimulation enables error simulation for testing.
func (f *FakeDriver) SetErrorSimulation(errorType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.simulateErrors = true
	f.errorType = errorType
}

// DisableErrorSimulation disables error simulation.
func (f *FakeDriver) DisableErrorSimulation() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.simulateErrors = false
	f.errorType = ""
}

// Rendered returns every document rendered so far, oldest first.
func (f *FakeDriver) Rendered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.rendered))
	copy(out, f.rendered)
	return out
}

func (f *FakeDriver) getSimulatedError() error {
	switch f.errorType {
	case "INVALID_RANGE":
		return fmt.Errorf("INVALID_RANGE: simulated range error")
	case "BUSY":
		return fmt.Errorf("BUSY: simulated busy error")
	case "UNAVAILABLE":
		return fmt.Errorf("UNAVAILABLE: simulated unavailable error")
	default:
		return fmt.Errorf("INTERNAL: simulated internal error")
	}
}
