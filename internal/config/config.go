package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/auditledger-dev/auditledger/internal/classify"
)

// Config represents the top-level auditledger.yaml configuration.
type Config struct {
	Paths          PathsConfig       `yaml:"paths"`
	Reconciliation ReconcileConfig   `yaml:"reconciliation"`
	Diagnostics    DiagnosticsConfig `yaml:"diagnostics"`
	Classifier     classify.Tokens   `yaml:"classifier"`
	Snapshot       SnapshotConfig    `yaml:"snapshot"`
}

// PathsConfig locates inputs and outputs.
type PathsConfig struct {
	InputDir     string `yaml:"input_dir"`
	OutputDir    string `yaml:"output_dir"`
	OverrideFile string `yaml:"override_file,omitempty"`
}

// ReconcileConfig controls the balance reconciliation check.
type ReconcileConfig struct {
	Tolerance string `yaml:"tolerance"` // currency units, e.g. "0.02"
}

// DiagnosticsConfig sets the fallback-pressure severity thresholds, in
// percent of each direction's dollar volume.
type DiagnosticsConfig struct {
	InflowFallbackWarnPct  float64 `yaml:"inflow_fallback_warn_pct"`
	InflowFallbackCritPct  float64 `yaml:"inflow_fallback_crit_pct"`
	OutflowFallbackWarnPct float64 `yaml:"outflow_fallback_warn_pct"`
	OutflowFallbackCritPct float64 `yaml:"outflow_fallback_crit_pct"`
}

// SnapshotConfig controls git snapshots of the output directory.
type SnapshotConfig struct {
	Enabled     bool   `yaml:"enabled"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads an auditledger.yaml file from disk. Empty classifier token
// lists fall back to the built-in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default(inputDir, outputDir string) *Config {
	cfg := &Config{
		Paths: PathsConfig{
			InputDir:  inputDir,
			OutputDir: outputDir,
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Reconciliation.Tolerance == "" {
		c.Reconciliation.Tolerance = "0.02"
	}
	if c.Diagnostics.InflowFallbackWarnPct == 0 {
		c.Diagnostics.InflowFallbackWarnPct = 15
	}
	if c.Diagnostics.InflowFallbackCritPct == 0 {
		c.Diagnostics.InflowFallbackCritPct = 25
	}
	if c.Diagnostics.OutflowFallbackWarnPct == 0 {
		c.Diagnostics.OutflowFallbackWarnPct = 30
	}
	if c.Diagnostics.OutflowFallbackCritPct == 0 {
		c.Diagnostics.OutflowFallbackCritPct = 50
	}
	if c.Snapshot.AuthorName == "" {
		c.Snapshot.AuthorName = "auditledger"
	}
	if c.Snapshot.AuthorEmail == "" {
		c.Snapshot.AuthorEmail = "auditledger@localhost"
	}
	defaults := classify.DefaultTokens()
	if len(c.Classifier.SalaryEmployers) == 0 {
		c.Classifier.SalaryEmployers = defaults.SalaryEmployers
	}
	if len(c.Classifier.Insurers) == 0 {
		c.Classifier.Insurers = defaults.Insurers
	}
	if len(c.Classifier.SelfEntities) == 0 {
		c.Classifier.SelfEntities = defaults.SelfEntities
	}
}
