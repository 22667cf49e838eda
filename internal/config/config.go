// internal/config/config.go
//
// This package handles configuration and the .renovest directory structure.
// Every project that runs renovest gets a .renovest/ folder created in its
// working directory, holding config.yaml and logs.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/renovalab/renovest/internal/handoff"
	"github.com/renovalab/renovest/internal/scoring"
	"github.com/renovalab/renovest/internal/valuation"
)

// RenovestDir is the name of the directory created in each working directory.
const RenovestDir = ".renovest"

const defaultConfigYAML = `# renovest configuration
version: 1

oracle:
  # Single bounded wait per estimation call, in seconds. Neither retried nor
  # extended.
  timeout_seconds: 10
  # Applied when the caller never supplies details after a handoff.
  default_assumptions:
    square_footage: 1800
    bedrooms: 3
    bathrooms: 2
  # Optional JSON file of property records for the offline oracle. Leave
  # empty to use the bundled sample dataset.
  data_file: ""

server:
  host: 127.0.0.1
  port: 8097

# The valuation constants below are empirically chosen business constants.
# They ship at their production values; do not re-derive them.
scoring:
  square_footage_weight: 3
  bedroom_weight: 3
  bathroom_weight: 2
  square_footage_exact_tolerance: 0.05
  square_footage_close_tolerance: 0.15
  close_bonus_ratio: 0.6666666666666666
  bedroom_decay: 0.25
  bathroom_decay: 0.5
  double_exact_bonus: 1.0
  single_exact_combo_bonus: 0.5
  max_results: 5

aggregate:
  double_exact_boost: 2.5
  single_exact_boost: 1.5

arv:
  base_multiplier: 1.14
  clamp_min: 1.15
  clamp_max: 1.35

allowance:
  tarr: 0.87
`

// OracleConfig tunes the oracle boundary.
type OracleConfig struct {
	TimeoutSeconds     int                 `yaml:"timeout_seconds"`
	DefaultAssumptions handoff.Assumptions `yaml:"default_assumptions"`
	DataFile           string              `yaml:"data_file,omitempty"`
}

// ServerConfig tunes the HTTP front-end.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address renders host:port for net.Listen.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ProjectConfig models .renovest/config.yaml.
type ProjectConfig struct {
	Version   int                       `yaml:"version"`
	Oracle    OracleConfig              `yaml:"oracle"`
	Server    ServerConfig              `yaml:"server"`
	Scoring   scoring.Params            `yaml:"scoring"`
	Aggregate valuation.AggregateParams `yaml:"aggregate"`
	ARV       valuation.ARVParams       `yaml:"arv"`
	Allowance valuation.AllowanceParams `yaml:"allowance"`
}

// Config holds the runtime configuration for renovest.
type Config struct {
	// ProjectDir is the directory the user ran renovest from.
	ProjectDir string

	// RenovestProjectDir is ProjectDir/.renovest.
	RenovestProjectDir string

	Project ProjectConfig
}

// InitRenovestDir creates the .renovest directory structure in the given
// working directory and seeds config.yaml with the defaults if absent.
func InitRenovestDir(projectDir string) error {
	dir := filepath.Join(projectDir, RenovestDir)
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return err
	}
	return ensureConfigFile(filepath.Join(dir, "config.yaml"))
}

// NewConfig creates a Config populated with defaults, overridden by
// .renovest/config.yaml when present.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		RenovestProjectDir: filepath.Join(projectDir, RenovestDir),
		Project:            defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.RenovestProjectDir, "logs")
}

// ConfigPath returns the on-disk location of the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.RenovestProjectDir, "config.yaml")
}

// OracleTimeout returns the bounded wait ceiling as a duration.
func (c *Config) OracleTimeout() time.Duration {
	return time.Duration(c.Project.Oracle.TimeoutSeconds) * time.Second
}

func (c *Config) loadProjectConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Oracle: OracleConfig{
			TimeoutSeconds: 10,
			DefaultAssumptions: handoff.Assumptions{
				SquareFootage: 1800,
				Bedrooms:      3,
				Bathrooms:     2,
			},
		},
		Server:    ServerConfig{Host: "127.0.0.1", Port: 8097},
		Scoring:   scoring.DefaultParams(),
		Aggregate: valuation.DefaultAggregateParams(),
		ARV:       valuation.DefaultARVParams(),
		Allowance: valuation.DefaultAllowanceParams(),
	}
}

func (pc *ProjectConfig) applyDefaults() {
	def := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = def.Version
	}
	if pc.Oracle.TimeoutSeconds == 0 {
		pc.Oracle.TimeoutSeconds = def.Oracle.TimeoutSeconds
	}
	if pc.Oracle.DefaultAssumptions == (handoff.Assumptions{}) {
		pc.Oracle.DefaultAssumptions = def.Oracle.DefaultAssumptions
	}
	if pc.Server.Host == "" {
		pc.Server.Host = def.Server.Host
	}
	if pc.Server.Port == 0 {
		pc.Server.Port = def.Server.Port
	}
	if pc.Scoring == (scoring.Params{}) {
		pc.Scoring = def.Scoring
	}
	if pc.Aggregate == (valuation.AggregateParams{}) {
		pc.Aggregate = def.Aggregate
	}
	if pc.ARV == (valuation.ARVParams{}) {
		pc.ARV = def.ARV
	}
	if pc.Allowance == (valuation.AllowanceParams{}) {
		pc.Allowance = def.Allowance
	}
}

func (pc ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	if pc.Oracle.TimeoutSeconds <= 0 {
		return fmt.Errorf("oracle.timeout_seconds must be positive")
	}
	a := pc.Oracle.DefaultAssumptions
	if a.SquareFootage <= 0 || a.Bedrooms <= 0 || a.Bathrooms <= 0 {
		return fmt.Errorf("oracle.default_assumptions must all be positive")
	}
	if pc.Server.Port <= 0 || pc.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range")
	}
	s := pc.Scoring
	if s.SquareFootageWeight <= 0 || s.BedroomWeight <= 0 || s.BathroomWeight <= 0 {
		return fmt.Errorf("scoring factor weights must be positive")
	}
	if s.SquareFootageExactTolerance <= 0 || s.SquareFootageCloseTolerance <= s.SquareFootageExactTolerance {
		return fmt.Errorf("scoring square-footage tolerances must satisfy 0 < exact < close")
	}
	if s.MaxResults <= 0 {
		return fmt.Errorf("scoring.max_results must be positive")
	}
	if pc.Aggregate.DoubleExactBoost <= 0 || pc.Aggregate.SingleExactBoost <= 0 {
		return fmt.Errorf("aggregate boosts must be positive")
	}
	if pc.ARV.ClampMin <= 1 || pc.ARV.ClampMax <= pc.ARV.ClampMin {
		return fmt.Errorf("arv clamp must satisfy 1 < clamp_min < clamp_max")
	}
	if pc.ARV.BaseMultiplier <= 0 {
		return fmt.Errorf("arv.base_multiplier must be positive")
	}
	if pc.Allowance.TARR <= 0 || pc.Allowance.TARR > 1 {
		return fmt.Errorf("allowance.tarr must be in (0, 1]")
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
