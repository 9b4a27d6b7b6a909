// Package simulation runs the full BB84 pipeline once, outside the shared
// session, for demonstrations and the CLI.
package simulation
