// Package app wires application dependencies for the bb84 binary.
//
// Config is loaded through viper from defaults, an optional YAML file, BB84_
// environment variables and command-line flags, in increasing precedence.
// NewServer builds the server graph (engine, registry, session, router,
// WebSocket and HTTP handlers, metrics) and New builds what client commands
// need.
package app
