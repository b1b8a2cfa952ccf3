package main

import (
	"fmt"
	"io"
	"log/slog"
	"os/user"

	"github.com/fabric-control/fcc/internal/audit"
	"github.com/fabric-control/fcc/internal/command"
	"github.com/fabric-control/fcc/internal/config"
	"github.com/fabric-control/fcc/internal/driver"
	"github.com/fabric-control/fcc/internal/driver/pica8"
	"github.com/fabric-control/fcc/internal/inventory"
	"github.com/fabric-control/fcc/internal/logging"
)

// app holds the components shared by the subcommands.
type app struct {
	cfg          *config.Config
	logger       *slog.Logger
	registry     *driver.Registry
	inventory    *inventory.Manager
	orchestrator *command.Orchestrator
	auditLogger  *audit.Logger
}

// newApp loads the configuration and wires the components. The audit logger
// is opened only when withAudit is set.
func newApp(configPath string, withAudit bool, stderr io.Writer) (*app, error) {
	// Step 1: Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Step 2: Logger
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	logger.Debug("Configuration loaded", "devices", len(cfg.Devices), "renderTimeout", cfg.RenderTimeout)

	// Step 3: Driver registry and resolver
	registry := driver.NewRegistry()
	registerDrivers(registry, cfg)
	resolver := driver.NewResolver(cfg, registry, logger)

	// Step 4: Inventory
	inv := inventory.NewManager()
	inv.LoadFromConfig(cfg)

	// Step 5: Orchestrator
	orchestrator := command.NewOrchestrator(resolver, cfg)
	orchestrator.SetInventory(inv)

	a := &app{
		cfg:          cfg,
		logger:       logger,
		registry:     registry,
		inventory:    inv,
		orchestrator: orchestrator,
	}

	// Step 6: Audit logger
	if withAudit {
		auditLogger, err := audit.NewLoggerWithConfig(cfg.Audit)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audit logger: %w", err)
		}
		orchestrator.SetAuditLogger(auditLogger)
		a.auditLogger = auditLogger
		logger.Debug("Audit logger initialized", "file", auditLogger.GetFilePath())
	}

	return a, nil
}

// registerDrivers registers every driver built into fcc.
func registerDrivers(registry *driver.Registry, cfg *config.Config) {
	registry.MustRegister(driver.Namespace, pica8.Name, pica8.Target, pica8.NewFactory(cfg))
}

func (a *app) Close() {
	if a.auditLogger == nil {
		return
	}
	if err := a.auditLogger.Close(); err != nil {
		a.logger.Error("Error closing audit logger", "error", err)
	}
}

// currentUser names the operator recorded in audit entries.
func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return ""
}
