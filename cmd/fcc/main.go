// Command fcc renders switch configuration for the devices of a bare-metal
// network fabric.
//
// Usage:
//
//	fcc <command> [flags]
//
// Commands:
//
//	render   Render a change set into the configuration document of a device
//	check    Resolve the driver of every configured device
//	devices  List configured devices
//	drivers  List registered drivers
//
// Examples:
//
//	# Render a change set for leaf-01
//	fcc render -device leaf-01 changes.yaml
//
//	# Render from stdin with an explicit configuration file
//	fcc render -config /etc/fcc/fcc.yaml -device leaf-01 - < changes.yaml
//
//	# Verify every device resolves to a working driver
//	fcc check
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Version is the fcc release.
const Version = "1.0.0"

const usage = `fcc - Fabric Config Container

Usage:
  fcc <command> [flags]

Commands:
  render   Render a change set into the configuration document of a device
  check    Resolve the driver of every configured device
  devices  List configured devices
  drivers  List registered drivers
  version  Print the version

Use "fcc <command> -help" for more information about a command.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 1
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "render":
		return runRender(ctx, args, stdin, stdout, stderr)
	case "check":
		return runCheck(ctx, args, stdout, stderr)
	case "devices":
		return runDevices(args, stdout, stderr)
	case "drivers":
		return runDrivers(args, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "fcc %s\n", Version)
		return 0
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(stderr, usage)
		return 1
	}
}
