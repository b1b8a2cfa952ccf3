// Package config holds the process configuration of the Fabric Config Container.
//
// The configuration maps device identifiers to their connection settings and
// driver name, and carries the logging, audit and render timeout settings.
// Values are merged in order: built-in defaults, the YAML file, then FCC_*
// environment variables. The result is validated before use.
package config
