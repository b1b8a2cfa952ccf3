// Package netconfig implements the switch configuration objects pushed by the
// Fabric Config Container: VLANs and switch ports. Each object renders its own XML
// element and can be passed to xmlconfig.Serialize as a fragment.
//
// Change sets read from YAML files are turned into an ordered fragment list by
// LoadChangeSet.
package netconfig
