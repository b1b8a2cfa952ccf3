package command

import (
	"context"
	"errors"
	"time"

	"github.com/fabric-control/fcc/internal/audit"
	"github.com/fabric-control/fcc/internal/config"
	"github.com/fabric-control/fcc/internal/driver"
	"github.com/fabric-control/fcc/internal/inventory"
	"github.com/fabric-control/fcc/internal/logging"
	"github.com/fabric-control/fcc/internal/xmlconfig"
)

// Orchestrator routes render requests to the driver of each device.
type Orchestrator struct {
	resolver DriverResolver

	// Configuration for timeouts
	config *config.Config

	auditLogger AuditLogger
	inventory   Inventory
}

// Compile-time assertions
var (
	_ OrchestratorPort = (*Orchestrator)(nil)
	_ DriverResolver   = (*driver.Resolver)(nil)
	_ Inventory        = (*inventory.Manager)(nil)
	_ AuditLogger      = (*audit.Logger)(nil)
)

// AuditLogger interface for writing audit records.
type AuditLogger interface {
	LogControlAction(ctx context.Context, action, deviceID string, params map[string]interface{}, latency time.Duration, err error)
}

// NewOrchestrator creates a new orchestrator. A nil cfg uses config.Defaults().
func NewOrchestrator(resolver DriverResolver, cfg *config.Config) *Orchestrator {
	if cfg == nil {
		cfg = config.Defaults()
	}
	return &Orchestrator{
		resolver: resolver,
		config:   cfg,
	}
}

// RenderConfig renders the fragments with a fresh driver for the device.
func (o *Orchestrator) RenderConfig(ctx context.Context, deviceID string, fragments []xmlconfig.Fragment) (string, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With("device", deviceID)
	params := map[string]interface{}{"fragments": len(fragments)}

	if o.inventory != nil {
		if _, err := o.inventory.GetDevice(deviceID); err != nil {
			o.logAudit(ctx, "render", deviceID, params, time.Since(start), err)
			return "", err
		}
	}

	drv, err := o.resolver.Resolve(deviceID)
	if err != nil {
		o.fail(ctx, "render", deviceID, params, start, err)
		return "", err
	}
	params["model"] = drv.GetModel()

	renderCtx, cancel := context.WithTimeout(ctx, o.config.RenderTimeout)
	defer cancel()

	doc, err := drv.RenderConfig(renderCtx, fragments)
	if err != nil {
		err = normalize(err)
		logger.Warn("Render failed", "model", drv.GetModel(), "error", err)
		o.fail(ctx, "render", deviceID, params, start, err)
		return "", err
	}

	latency := time.Since(start)
	o.logAudit(ctx, "render", deviceID, params, latency, nil)
	o.recordSuccess(ctx, deviceID, drv.GetModel())

	logger.Info("Rendered configuration", "model", drv.GetModel(), "bytes", len(doc), "latency", latency)
	return doc, nil
}

// Probe resolves the driver for the device and reports its identity.
func (o *Orchestrator) Probe(ctx context.Context, deviceID string) (*ProbeResult, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	drv, err := o.resolver.Resolve(deviceID)
	if err != nil {
		o.logAudit(ctx, "probe", deviceID, nil, time.Since(start), err)
		return nil, err
	}

	o.logAudit(ctx, "probe", deviceID, map[string]interface{}{"model": drv.GetModel()}, time.Since(start), nil)
	logging.FromContext(ctx).Debug("Probed device", "device", deviceID, "model", drv.GetModel())

	result := &ProbeResult{
		DeviceID: drv.GetDeviceID(),
		Model:    drv.GetModel(),
	}
	if s, ok := drv.(interface{ GetStatus() string }); ok {
		result.Status = s.GetStatus()
	}
	if a, ok := drv.(interface{ Address() string }); ok {
		result.Address = a.Address()
	}
	return result, nil
}

// SetAuditLogger sets the audit logger.
func (o *Orchestrator) SetAuditLogger(logger AuditLogger) {
	o.auditLogger = logger
}

// SetInventory sets the inventory updated after each render.
func (o *Orchestrator) SetInventory(inv Inventory) {
	o.inventory = inv
}

// normalize maps driver errors that carry no domain meaning to a normalized code.
// Configuration, vendor and context errors are returned unchanged.
func normalize(err error) error {
	var cfgErr *xmlconfig.ConfigurationError
	var vendorErr *driver.VendorError
	switch {
	case errors.As(err, &cfgErr),
		errors.As(err, &vendorErr),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return driver.NormalizeVendorError(err, nil)
	}
}

func (o *Orchestrator) fail(ctx context.Context, action, deviceID string, params map[string]interface{}, start time.Time, err error) {
	o.logAudit(ctx, action, deviceID, params, time.Since(start), err)
	if o.inventory != nil {
		if ierr := o.inventory.RecordFailure(deviceID, err); ierr != nil {
			logging.FromContext(ctx).Warn("Failed to update inventory", "device", deviceID, "error", ierr)
		}
	}
}

func (o *Orchestrator) recordSuccess(ctx context.Context, deviceID, model string) {
	if o.inventory == nil {
		return
	}
	if err := o.inventory.RecordSuccess(deviceID, model); err != nil {
		logging.FromContext(ctx).Warn("Failed to update inventory", "device", deviceID, "error", err)
	}
}

// logAudit logs an audit record for an action.
func (o *Orchestrator) logAudit(ctx context.Context, action, deviceID string, params map[string]interface{}, latency time.Duration, err error) {
	if o.auditLogger != nil {
		o.auditLogger.LogControlAction(ctx, action, deviceID, params, latency, err)
	}
}
