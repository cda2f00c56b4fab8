package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/revoult/savings/internal/money"
	"github.com/revoult/savings/internal/statement"
)

// FileName is the config file looked up in a statement directory.
const FileName = "savings.yaml"

// Config represents the savings.yaml configuration.
type Config struct {
	Currency string           `yaml:"currency"`
	Columns  statement.Layout `yaml:"columns"`
	Report   ReportConfig     `yaml:"report"`
}

// ReportConfig controls how a directory is processed and printed.
type ReportConfig struct {
	Format    string `yaml:"format"`     // "text" or "csv"
	Jobs      int    `yaml:"jobs"`       // files processed concurrently
	KeepGoing bool   `yaml:"keep_going"` // report good files when others fail
}

// Load reads a savings.yaml file from disk. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads path when given, otherwise <dir>/savings.yaml if present,
// otherwise the defaults.
func Resolve(path, dir string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
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

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Columns.Description == "" || c.Columns.MoneyIn == "" || c.Columns.MoneyOut == "" {
		return errors.New("columns: description, money_in and money_out must be set")
	}
	if c.Report.Jobs < 0 {
		return fmt.Errorf("report.jobs must not be negative, got %d", c.Report.Jobs)
	}
	return nil
}

// Default returns the configuration for Revolut savings exports in PLN.
func Default() *Config {
	return &Config{
		Currency: money.DefaultCurrency,
		Columns:  statement.DefaultLayout(),
		Report: ReportConfig{
			Format: "text",
			Jobs:   1,
		},
	}
}
