// Package store provides file-based persistence for simulation reports.
//
// Reports are the JSON results of one-shot simulations saved by the CLI, one
// file per report under a directory the user chooses. Writes go through a
// temp file and rename so a report is either complete or absent. The live
// session is never persisted.
package store
