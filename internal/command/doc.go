// Package command implements the render orchestrator of the Fabric Config Container.
//
// The orchestrator checks the device against the inventory, resolves a fresh
// driver, renders the configuration under the configured timeout, writes an
// audit record and updates the inventory status.
package command
