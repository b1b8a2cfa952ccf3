package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fabric-control/fcc/internal/audit"
	"github.com/fabric-control/fcc/internal/driver"
	"github.com/fabric-control/fcc/internal/logging"
	"github.com/fabric-control/fcc/internal/netconfig"
	"github.com/fabric-control/fcc/internal/xmlconfig"
)

func newFlagSet(name, synopsis string, stderr io.Writer) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "fcc %s - %s\n\nUsage:\n  fcc %s [flags]\n\nFlags:\n", name, synopsis, name)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Path to the configuration file (default $FCC_CONFIG or ./fcc.yaml)")
	return fs, configPath
}

func runRender(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs, configPath := newFlagSet("render", "Render a change set into the configuration document of a device", stderr)
	deviceID := fs.String("device", "", "Device id to render for (required)")
	output := fs.String("o", "", "Write the document to this file instead of stdout")
	operator := fs.String("user", currentUser(), "User recorded in the audit trail")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *deviceID == "" || fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: -device and one change set file (or - for stdin) are required")
		fs.Usage()
		return 2
	}

	a, err := newApp(*configPath, true, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	fragments, err := readChangeSet(fs.Arg(0), stdin)
	if err != nil {
		a.logger.Error("Failed to read change set", "file", fs.Arg(0), "error", err)
		return 1
	}

	ctx = logging.WithLogger(ctx, a.logger)
	ctx = audit.WithUser(ctx, *operator)

	doc, err := a.orchestrator.RenderConfig(ctx, *deviceID, fragments)
	if err != nil {
		a.logger.Error("Render failed", "device", *deviceID, "code", audit.CodeFromError(err), "error", err)
		return 1
	}

	if *output == "" {
		fmt.Fprintln(stdout, doc)
		return 0
	}
	if err := os.WriteFile(*output, []byte(doc+"\n"), 0644); err != nil {
		a.logger.Error("Failed to write document", "file", *output, "error", err)
		return 1
	}
	return 0
}

func readChangeSet(path string, stdin io.Reader) ([]xmlconfig.Fragment, error) {
	if path == "-" {
		return netconfig.LoadChangeSet(stdin)
	}
	return netconfig.LoadChangeSetFile(path)
}

func runCheck(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, configPath := newFlagSet("check", "Resolve the driver of every configured device", stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	a, err := newApp(*configPath, true, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	ctx = logging.WithLogger(ctx, a.logger)
	ctx = audit.WithUser(ctx, currentUser())

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEVICE\tRESULT\tDETAIL")

	failed := 0
	for _, id := range a.cfg.DeviceIDs() {
		result, err := a.orchestrator.Probe(ctx, id)
		if err != nil {
			failed++
			fmt.Fprintf(tw, "%s\t%s\t%v\n", id, audit.CodeFromError(err), err)
			continue
		}
		detail := result.Model + " " + result.Status
		if result.Address != "" {
			detail += " " + result.Address
		}
		fmt.Fprintf(tw, "%s\tOK\t%s\n", id, detail)
	}
	_ = tw.Flush()

	if failed > 0 {
		fmt.Fprintf(stderr, "%d of %d devices failed\n", failed, len(a.cfg.Devices))
		return 1
	}
	return 0
}

func runDevices(args []string, stdout, stderr io.Writer) int {
	fs, configPath := newFlagSet("devices", "List configured devices", stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	a, err := newApp(*configPath, false, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEVICE\tDRIVER\tADDRESS\tNETWORKS\tSTATUS")
	for _, dev := range a.inventory.List() {
		networks := "-"
		if len(dev.PhysicalNetworks) > 0 {
			networks = strings.Join(dev.PhysicalNetworks, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", dev.ID, dev.Driver, dev.Address, networks, dev.Status)
	}
	_ = tw.Flush()
	return 0
}

func runDrivers(args []string, stdout, stderr io.Writer) int {
	fs, configPath := newFlagSet("drivers", "List registered drivers", stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	a, err := newApp(*configPath, false, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	for _, name := range a.registry.Names(driver.Namespace) {
		entry, err := a.registry.Lookup(driver.Namespace, name)
		if err != nil {
			fmt.Fprintf(stdout, "%s.%s\t(%v)\n", driver.Namespace, name, err)
			continue
		}
		fmt.Fprintf(stdout, "%s.%s\n", driver.Namespace, entry)
	}
	return 0
}
