package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadProjectConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	renovestDir := filepath.Join(projectDir, ".renovest")
	if err := os.MkdirAll(renovestDir, 0o755); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, RenovestProjectDir: renovestDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if c.OracleTimeout() != 10*time.Second {
		t.Fatalf("expected 10s oracle timeout, got %s", c.OracleTimeout())
	}
	if c.Project.Allowance.TARR != 0.87 {
		t.Fatalf("expected default TARR 0.87, got %f", c.Project.Allowance.TARR)
	}
	if c.Project.Scoring.SquareFootageWeight != 3 || c.Project.Scoring.BathroomWeight != 2 {
		t.Fatalf("unexpected default scoring weights: %+v", c.Project.Scoring)
	}
}

func TestLoadProjectConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	renovestDir := filepath.Join(projectDir, ".renovest")
	if err := os.MkdirAll(renovestDir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
oracle:
  timeout_seconds: 4
  default_assumptions:
    square_footage: 1500
    bedrooms: 2
    bathrooms: 1
server:
  host: 0.0.0.0
  port: 9000
`)
	if err := os.WriteFile(filepath.Join(renovestDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, RenovestProjectDir: renovestDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.OracleTimeout() != 4*time.Second {
		t.Fatalf("expected 4s timeout, got %s", c.OracleTimeout())
	}
	if c.Project.Oracle.DefaultAssumptions.Bedrooms != 2 {
		t.Fatalf("expected overridden assumptions, got %+v", c.Project.Oracle.DefaultAssumptions)
	}
	if c.Project.Server.Address() != "0.0.0.0:9000" {
		t.Fatalf("unexpected server address %s", c.Project.Server.Address())
	}
	// Sections absent from the file keep their production defaults.
	if c.Project.Aggregate.DoubleExactBoost != 2.5 {
		t.Fatalf("expected default aggregate boost, got %f", c.Project.Aggregate.DoubleExactBoost)
	}
	if c.Project.ARV.ClampMax != 1.35 {
		t.Fatalf("expected default clamp, got %f", c.Project.ARV.ClampMax)
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	cases := map[string]string{
		"negative timeout": "oracle:\n  timeout_seconds: -3\n",
		"tarr too large":   "allowance:\n  tarr: 1.5\n",
		"inverted clamp":   "arv:\n  base_multiplier: 1.14\n  clamp_min: 1.4\n  clamp_max: 1.2\n",
	}
	for name, body := range cases {
		projectDir := t.TempDir()
		renovestDir := filepath.Join(projectDir, ".renovest")
		if err := os.MkdirAll(renovestDir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(renovestDir, "config.yaml"), []byte("version: 1\n"+body), 0o644); err != nil {
			t.Fatal(err)
		}
		c := &Config{ProjectDir: projectDir, RenovestProjectDir: renovestDir, Project: defaultProjectConfig()}
		if err := c.loadProjectConfig(); err == nil {
			t.Fatalf("%s: expected validation error but got none", name)
		}
	}
}

func TestInitRenovestDirSeedsConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitRenovestDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Project.Allowance.TARR != 0.87 {
		t.Fatalf("seeded config lost the TARR default: %f", cfg.Project.Allowance.TARR)
	}
	if _, err := os.Stat(cfg.LogsDir()); err != nil {
		t.Fatalf("logs dir missing: %v", err)
	}
}
