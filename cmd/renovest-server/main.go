// cmd/renovest-server/main.go
//
// Headless front-end: serves the estimation engine over HTTP. Listens on
// the configured host:port until interrupted, then drains in-flight
// requests before exiting.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/renovalab/renovest/internal/config"
	"github.com/renovalab/renovest/internal/engine"
	"github.com/renovalab/renovest/internal/httpapi"
	"github.com/renovalab/renovest/internal/logging"
	"github.com/renovalab/renovest/internal/oracle"
	"github.com/renovalab/renovest/internal/property"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "renovest-server: %v\n", err)
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

	server, err := httpapi.NewServer(cfg.Project.Server.Address(), est, httpapi.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	fmt.Printf("renovest-server listening on %s\n", server.Addr())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return server.Shutdown(ctx)
}

func loadRecords(cfg *config.Config) ([]property.Record, error) {
	if path := cfg.Project.Oracle.DataFile; path != "" {
		return oracle.LoadRecords(path)
	}
	return oracle.SampleRecords(), nil
}
