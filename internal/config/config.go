package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/worklens-org/worklens/dataset"
	"github.com/worklens-org/worklens/landscape"
	"github.com/worklens-org/worklens/schema"
)

// Config is the top-level worklens.yml shape. Precedence is fixed: defaults,
// then the file, then WORKLENS_* environment variables.
type Config struct {
	Dataset    Dataset                 `yaml:"dataset"`
	Synthetic  dataset.SyntheticConfig `yaml:"synthetic"`
	Scale      Scale                   `yaml:"scale"`
	Thresholds Thresholds              `yaml:"thresholds"`
}

// Dataset points the loader at a source.
type Dataset struct {
	BaseURL  string `yaml:"baseUrl,omitempty" env:"WORKLENS_BASE_URL"`
	Revision string `yaml:"revision,omitempty" env:"WORKLENS_REVISION"`
	Dir      string `yaml:"dir,omitempty" env:"WORKLENS_DATA_DIR"`
	Offline  bool   `yaml:"offline,omitempty" env:"WORKLENS_OFFLINE"`
	Timeout  string `yaml:"timeout,omitempty" env:"WORKLENS_TIMEOUT"` // e.g. "15s", "2m"
}

// ResolveBaseURL returns the explicit base URL if one was set, otherwise the
// upstream root pinned to the configured revision.
func (d Dataset) ResolveBaseURL() string {
	if d.BaseURL != "" {
		return d.BaseURL
	}
	return dataset.BaseURLForRevision(d.Revision)
}

// FetchTimeout parses the configured timeout. Validate has already rejected
// malformed values, so the fallback only covers the unset case.
func (d Dataset) FetchTimeout() time.Duration {
	dur, err := time.ParseDuration(d.Timeout)
	if err != nil || dur <= 0 {
		return dataset.DefaultTimeout
	}
	return dur
}

// Scale declares the rating scale both source tables use.
type Scale struct {
	Min float64 `yaml:"min" env:"WORKLENS_SCALE_MIN"`
	Max float64 `yaml:"max" env:"WORKLENS_SCALE_MAX"`
}

// Thresholds split each rating axis for quadrant placement. Unset values
// default to the scale midpoint, so they are pointers rather than zeroes.
type Thresholds struct {
	Desire     *float64 `yaml:"desire,omitempty" env:"WORKLENS_THRESHOLD_DESIRE"`
	Capability *float64 `yaml:"capability,omitempty" env:"WORKLENS_THRESHOLD_CAPABILITY"`
}

// Default returns the configuration a bare run uses: upstream dataset at the
// default revision, the 1-5 scale, midpoint thresholds.
func Default() Config {
	s := schema.DefaultScale()
	return Config{
		Dataset:   Dataset{Timeout: dataset.DefaultTimeout.String()},
		Synthetic: dataset.DefaultSyntheticConfig(),
		Scale:     Scale{Min: s.Min, Max: s.Max},
	}
}

// Load builds the effective configuration. An empty path skips the file and
// applies only defaults and environment overrides; a named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot honor.
func (c Config) Validate() error {
	scale := c.scale()
	if err := scale.Validate(); err != nil {
		return err
	}
	if c.Thresholds.Desire != nil && !scale.Contains(*c.Thresholds.Desire) {
		return fmt.Errorf("desire threshold %v outside scale [%v, %v]", *c.Thresholds.Desire, scale.Min, scale.Max)
	}
	if c.Thresholds.Capability != nil && !scale.Contains(*c.Thresholds.Capability) {
		return fmt.Errorf("capability threshold %v outside scale [%v, %v]", *c.Thresholds.Capability, scale.Min, scale.Max)
	}
	if c.Dataset.Timeout != "" {
		dur, err := time.ParseDuration(c.Dataset.Timeout)
		if err != nil {
			return fmt.Errorf("invalid dataset timeout %q: %w", c.Dataset.Timeout, err)
		}
		if dur <= 0 {
			return fmt.Errorf("dataset timeout must be positive, got %v", dur)
		}
	}
	if err := c.Synthetic.Validate(); err != nil {
		return err
	}
	return nil
}

// Registry materializes the schema registry on the configured scale.
func (c Config) Registry() *schema.Registry {
	return schema.WithScale(c.scale())
}

// Params materializes the derivation parameters, filling unset thresholds
// with the scale midpoint.
func (c Config) Params() landscape.Params {
	scale := c.scale()
	th := landscape.DefaultThresholds(scale)
	if c.Thresholds.Desire != nil {
		th.Desire = *c.Thresholds.Desire
	}
	if c.Thresholds.Capability != nil {
		th.Capability = *c.Thresholds.Capability
	}
	return landscape.Params{Scale: scale, Thresholds: th}
}

// LoaderOptions translates the dataset section into loader options.
func (c Config) LoaderOptions() []dataset.LoaderOption {
	opts := []dataset.LoaderOption{
		dataset.WithBaseURL(c.Dataset.ResolveBaseURL()),
		dataset.WithTimeout(c.Dataset.FetchTimeout()),
		dataset.WithSynthetic(c.Synthetic),
	}
	if c.Dataset.Dir != "" {
		opts = append(opts, dataset.WithDir(c.Dataset.Dir))
	}
	if c.Dataset.Offline {
		opts = append(opts, dataset.WithOffline(true))
	}
	return opts
}

func (c Config) scale() schema.Scale {
	return schema.Scale{Min: c.Scale.Min, Max: c.Scale.Max}
}
