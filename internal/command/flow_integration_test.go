//go:build integration

package command

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/fabric-control/fcc/internal/audit"
	"github.com/fabric-control/fcc/internal/config"
	"github.com/fabric-control/fcc/internal/driver"
	"github.com/fabric-control/fcc/internal/driver/pica8"
	"github.com/fabric-control/fcc/internal/inventory"
	"github.com/fabric-control/fcc/internal/logging"
	"github.com/fabric-control/fcc/internal/netconfig"
)

// TestRenderDriverAuditFlow exercises the full flow:
// change set -> orchestrator -> pica8 driver -> audit entry -> inventory status.
func TestRenderDriverAuditFlow(t *testing.T) {
	cfg := config.Defaults()
	cfg.Devices["leaf-01"] = config.Device{Driver: pica8.Name, Address: "192.0.2.10"}
	cfg.Audit.Dir = t.TempDir()

	registry := driver.NewRegistry()
	registry.MustRegister(driver.Namespace, pica8.Name, pica8.Target, pica8.NewFactory(cfg))

	var logs strings.Builder
	logger := logging.New("debug", "json", &logs)

	auditLogger, err := audit.NewLoggerWithConfig(cfg.Audit)
	if err != nil {
		t.Fatalf("NewLoggerWithConfig() failed: %v", err)
	}
	defer func() { _ = auditLogger.Close() }()

	inv := inventory.NewManager()
	inv.LoadFromConfig(cfg)

	o := NewOrchestrator(driver.NewResolver(cfg, registry, logger), cfg)
	o.SetAuditLogger(auditLogger)
	o.SetInventory(inv)

	fragments, err := netconfig.LoadChangeSet(strings.NewReader(`
changes:
  - vlan: {id: 100}
  - vlan: {id: 5000}
`))
	if err != nil {
		t.Fatalf("LoadChangeSet() failed: %v", err)
	}

	ctx := audit.WithUser(logging.WithLogger(context.Background(), logger), "flow-test")

	// Out-of-range VLAN is rejected by the driver.
	if _, err := o.RenderConfig(ctx, "leaf-01", fragments); err == nil {
		t.Fatal("Expected INVALID_RANGE for vlan 5000")
	}

	// Valid subset renders.
	doc, err := o.RenderConfig(ctx, "leaf-01", fragments[:1])
	if err != nil {
		t.Fatalf("RenderConfig() failed: %v", err)
	}
	if !strings.HasPrefix(doc, "<configuration>") {
		t.Errorf("Unexpected document %s", doc)
	}

	content, err := os.ReadFile(auditLogger.GetFilePath())
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 audit entries, got %d", len(lines))
	}

	wantCodes := []string{"INVALID_RANGE", "SUCCESS"}
	for i, line := range lines {
		var entry audit.Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Entry %d is not JSON: %v", i, err)
		}
		if entry.Code != wantCodes[i] {
			t.Errorf("Entry %d: code = %s, want %s", i, entry.Code, wantCodes[i])
		}
		if entry.User != "flow-test" {
			t.Errorf("Entry %d: user = %s, want flow-test", i, entry.User)
		}
	}

	dev, err := inv.GetDevice("leaf-01")
	if err != nil {
		t.Fatalf("GetDevice() failed: %v", err)
	}
	if dev.Status != inventory.StatusReady || dev.Model != "Pica8-PicOS" {
		t.Errorf("Inventory = %+v, want ready Pica8-PicOS", dev)
	}
}
