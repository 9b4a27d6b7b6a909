package interfaces

import domaintypes "bb84/internal/domain/types"

// ReportStore keeps simulation reports written by the CLI.
type ReportStore interface {
	SaveReport(name string, result domaintypes.SimulationResult) (path string, err error)
	LoadReport(name string) (domaintypes.SimulationResult, bool, error)
}
