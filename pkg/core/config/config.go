package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config carries the engine's tunables. Everything has a working default;
// a config file only needs the fields it wants to override.
type Config struct {
	// MinNationalShare is the deposit-share cutoff for assessment-area
	// generation, as a fraction in (0, 1].
	MinNationalShare float64 `yaml:"min_national_share"`

	// HHIPrecision is the number of decimals HHI values are reported at.
	HHIPrecision int `yaml:"hhi_precision"`

	// FetchConcurrency bounds parallel county-market fetches per request.
	FetchConcurrency int `yaml:"fetch_concurrency"`
}

// Default returns the engine defaults: 1% share cutoff, 2-decimal HHI
// (matching the source reporting system), fan-out of 4.
func Default() Config {
	return Config{
		MinNationalShare: 0.01,
		HHIPrecision:     2,
		FetchConcurrency: 4,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects out-of-range values.
func (c Config) Validate() error {
	if c.MinNationalShare <= 0 || c.MinNationalShare > 1 {
		return fmt.Errorf("min_national_share must be in (0, 1], got %v", c.MinNationalShare)
	}
	if c.HHIPrecision < 0 {
		return fmt.Errorf("hhi_precision must be >= 0, got %d", c.HHIPrecision)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("fetch_concurrency must be >= 1, got %d", c.FetchConcurrency)
	}
	return nil
}
