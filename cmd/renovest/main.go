// cmd/renovest/main.go
//
// Entry point for the interactive estimator. Running `renovest` in a
// directory initializes its .renovest/ folder (config + logs) and starts
// the TUI over an offline fixture oracle.

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/renovalab/renovest/internal/config"
	"github.com/renovalab/renovest/internal/engine"
	"github.com/renovalab/renovest/internal/logging"
	"github.com/renovalab/renovest/internal/oracle"
	"github.com/renovalab/renovest/internal/property"
	"github.com/renovalab/renovest/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "renovest: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	if err := config.InitRenovestDir(cwd); err != nil {
		return fmt.Errorf("initialize %s directory: %w", config.RenovestDir, err)
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cwd)
	if err != nil {
		return err
	}
	defer logger.Close()

	records, err := loadRecords(cfg)
	if err != nil {
		return err
	}
	propertyOracle := oracle.NewFixture(records, cfg.Project.Oracle.DefaultAssumptions)

	est, err := engine.New(propertyOracle, cfg.Project, engine.WithLogger(logger))
	if err != nil {
		return err
	}

	app, err := tui.NewApp(est)
	if err != nil {
		return err
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// loadRecords prefers the configured dataset; the bundled sample keeps the
// binary usable out of the box.
func loadRecords(cfg *config.Config) ([]property.Record, error) {
	if path := cfg.Project.Oracle.DataFile; path != "" {
		return oracle.LoadRecords(path)
	}
	return oracle.SampleRecords(), nil
}
