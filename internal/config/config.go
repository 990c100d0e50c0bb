package config

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/viper"

	"vestige/internal/errors"
)

// Config represents the complete vestige configuration (v1 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	// Workers is the number of concurrent build workers used when
	// ingesting an index snapshot. Zero means one per CPU.
	Workers int `json:"workers" mapstructure:"workers"`

	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Report   ReportConfig   `json:"report" mapstructure:"report"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// AnalysisConfig controls the reachability visitors
type AnalysisConfig struct {
	// EntryPoints are glob patterns (path.Match syntax) over symbol
	// identifiers. Matching declarations are retained and seed
	// reachability.
	EntryPoints []string `json:"entryPoints" mapstructure:"entryPoints"`

	// RetainKinds retains every declaration of the named kinds,
	// e.g. "protocol" to keep all protocol declarations.
	RetainKinds []string `json:"retainKinds" mapstructure:"retainKinds"`

	// IgnoredUSRs are glob patterns over symbol identifiers excluded
	// from the reported results unconditionally.
	IgnoredUSRs []string `json:"ignoredUsrs" mapstructure:"ignoredUsrs"`

	// RetainImplicit exempts compiler-synthesized declarations from
	// being reported.
	RetainImplicit bool `json:"retainImplicit" mapstructure:"retainImplicit"`

	// RetainRoots retains every top-level declaration identified during
	// the build phase, regardless of entry-point patterns.
	RetainRoots bool `json:"retainRoots" mapstructure:"retainRoots"`
}

// ReportConfig controls result output
type ReportConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Limit  int    `json:"limit" mapstructure:"limit"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Workers: 0,
		Analysis: AnalysisConfig{
			EntryPoints:    []string{"*main*"},
			RetainKinds:    []string{},
			IgnoredUSRs:    []string{},
			RetainImplicit: true,
		},
		Report: ReportConfig{
			Format: "json",
			Limit:  0,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .vestige/config.json. A missing
// file yields the defaults.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("workers", 0)
	v.SetDefault("analysis.retainImplicit", true)
	v.SetDefault("report.format", "json")
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".vestige"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, errors.New(errors.ConfigInvalid, "failed to read config", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "failed to parse config", err)
	}

	return &cfg, nil
}

// Save writes the configuration to .vestige/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".vestige")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return errors.New(errors.ConfigInvalid, "unsupported config version", nil).
			WithDetails(map[string]int{"version": c.Version})
	}
	if c.Workers < 0 {
		return errors.New(errors.ConfigInvalid, "workers must be >= 0", nil)
	}
	for _, patterns := range [][]string{c.Analysis.EntryPoints, c.Analysis.IgnoredUSRs} {
		for _, p := range patterns {
			if _, err := path.Match(p, ""); err != nil {
				return errors.New(errors.ConfigInvalid, "invalid glob pattern", err).
					WithDetails(map[string]string{"pattern": p})
			}
		}
	}
	switch c.Report.Format {
	case "", "json", "human", "csv":
	default:
		return errors.New(errors.ConfigInvalid, "unsupported report format", nil).
			WithDetails(map[string]string{"format": c.Report.Format})
	}
	return nil
}

// MatchesAny reports whether any glob pattern matches the identifier.
// Malformed patterns never match; Validate rejects them up front.
func MatchesAny(patterns []string, usr string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, usr); err == nil && ok {
			return true
		}
	}
	return false
}
