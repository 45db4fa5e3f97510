// Package config loads and validates simulator configuration, in the same
// style as the teacher's nf/upf/internal/config/config.go: a YAML-tagged
// struct loaded with gopkg.in/yaml.v3, with a Load(path) (*Config, error)
// entrypoint and explicit defaulting.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything one simulation run needs.
type Config struct {
	RunID int `yaml:"run_id"`

	UPFCase            int     `yaml:"upf_case"`
	MaxUPFs            int     `yaml:"max_upfs"`
	MinUPFs            int     `yaml:"min_upfs"`
	MaxSessionsPerUPF  int     `yaml:"max_sessions_per_upf"`
	ScaleOutThreshold  int     `yaml:"scale_out_threshold"`
	ScaleInThreshold   int     `yaml:"scale_in_threshold"`
	SimulationTimeMS   int64   `yaml:"simulation_time"`
	ArrivalRate        float64 `yaml:"arrival_rate"`
	Mu                 float64 `yaml:"mu"`
	MigrationCase      int     `yaml:"migration_case"`
	Seed               *int64  `yaml:"seed"`

	Throughput ThroughputConfig `yaml:"throughput"`

	Observability ObservabilityConfig `yaml:"observability"`
}

// ThroughputConfig enables the throughput-aware placement variant
// (spec.md §9 "Multiple variants"). When Enabled is false the core behaves
// exactly as the baseline — no throughput fields are populated or checked.
type ThroughputConfig struct {
	Enabled              bool    `yaml:"enabled"`
	UPFCapacity          float64 `yaml:"upf_capacity"`
	MeanSessionDemand    float64 `yaml:"mean_session_demand"`
}

// ObservabilityConfig mirrors the teacher's ObservabilityConfig shape.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Admin   AdminConfig   `yaml:"admin"`
}

// LoggingConfig holds the logging settings. They are loaded and defaulted
// but not read by cmd/upfsim, whose logger always writes JSON at info level.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus exposition server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// AdminConfig configures the admin HTTP surface.
type AdminConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads and validates a Config from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Observability.Metrics.Port == 0 {
		cfg.Observability.Metrics.Port = 9098
	}
	if cfg.Observability.Admin.Port == 0 {
		cfg.Observability.Admin.Port = 9096
	}
	if cfg.Observability.Logging.Level == "" {
		cfg.Observability.Logging.Level = "info"
	}
}

// Validate enforces the configuration-error conditions of spec.md §6: exit
// non-zero with a diagnostic if min_upfs > max_upfs, a rate is
// non-positive, or upf_case/migration_case is out of range.
func (c *Config) Validate() error {
	if c.MinUPFs < 0 {
		return fmt.Errorf("config: min_upfs must be >= 0, got %d", c.MinUPFs)
	}
	if c.MaxUPFs < 1 {
		return fmt.Errorf("config: max_upfs must be >= 1, got %d", c.MaxUPFs)
	}
	if c.MinUPFs > c.MaxUPFs {
		return fmt.Errorf("config: min_upfs (%d) must be <= max_upfs (%d)", c.MinUPFs, c.MaxUPFs)
	}
	if c.MaxSessionsPerUPF < 1 {
		return fmt.Errorf("config: max_sessions_per_upf must be >= 1, got %d", c.MaxSessionsPerUPF)
	}
	if c.ScaleOutThreshold < 0 {
		return fmt.Errorf("config: scale_out_threshold must be >= 0, got %d", c.ScaleOutThreshold)
	}
	if c.ScaleInThreshold < 0 {
		return fmt.Errorf("config: scale_in_threshold must be >= 0, got %d", c.ScaleInThreshold)
	}
	if c.SimulationTimeMS <= 0 {
		return fmt.Errorf("config: simulation_time must be > 0, got %d", c.SimulationTimeMS)
	}
	if c.ArrivalRate <= 0 {
		return fmt.Errorf("config: arrival_rate must be > 0, got %f", c.ArrivalRate)
	}
	if c.Mu <= 0 {
		return fmt.Errorf("config: mu must be > 0, got %f", c.Mu)
	}
	if c.UPFCase < 1 || c.UPFCase > 3 {
		return fmt.Errorf("config: upf_case must be in {1,2,3}, got %d", c.UPFCase)
	}
	if c.MigrationCase < 1 || c.MigrationCase > 6 {
		return fmt.Errorf("config: migration_case must be in {1,...,6}, got %d", c.MigrationCase)
	}
	return nil
}
