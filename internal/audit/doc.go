// Package audit implements the audit trail of the Fabric Config Container.
//
// Every render and probe is appended as one JSON line holding the entry id,
// user, device id, parameters, outcome and latency. The file is rotated by
// size through lumberjack.
package audit
