package app

import (
	"net/http"

	"github.com/rs/zerolog"

	"bb84/internal/client"
	"bb84/internal/domain"
	simulationsvc "bb84/internal/services/simulation"
	"bb84/internal/store"
)

// App is what client commands use: a client for a running server, a local
// simulator and a report store.
type App struct {
	Server     domain.ServerClient
	Simulation domain.SimulationService
	Reports    domain.ReportStore
}

// New builds an App from cfg. reportDir may be empty when no reports are saved.
func New(cfg Config, log zerolog.Logger, httpClient *http.Client, reportDir string) *App {
	c := client.NewHTTP(cfg.ServerURL)
	if httpClient != nil {
		c.HTTP = httpClient
	}
	var reports domain.ReportStore
	if reportDir != "" {
		reports = store.NewReportFileStore(reportDir)
	}
	return &App{
		Server:     c,
		Simulation: simulationsvc.New(newEngine(cfg.Seed), cfg.MaxBits, log, nil),
		Reports:    reports,
	}
}
