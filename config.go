package fluxtree

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/policy"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the engine configuration. The
// zero value is useful, nested fields inherit package defaults.
type Config struct {
	Defaults state.Context  `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	State    interface{}    `json:"state,omitempty" yaml:"state,omitempty"`
	Tracing  TracingConfig  `json:"tracing" yaml:"tracing"`
	Events   EventsConfig   `json:"events" yaml:"events"`
	Trees    TreesConfig    `json:"trees" yaml:"trees"`
	Runs     RunsConfig     `json:"runs" yaml:"runs"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics"`
	Policy   *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// MetricsConfig enables Prometheus metrics on the default registerer
type MetricsConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Service string `json:"service" yaml:"service"`
	Version string `json:"version" yaml:"version"`
	// Output is a file path, stdout when empty
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

type EventsConfig struct {
	Buffer     int `json:"buffer" yaml:"buffer"`
	MaxRetries int `json:"maxRetries" yaml:"maxRetries"`
}

type TreesConfig struct {
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

// RunsConfig enables the run history store, either JSON files under URL or Redis
type RunsConfig struct {
	URL   string       `json:"url,omitempty" yaml:"url,omitempty"`
	Redis *RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
}

type RedisConfig struct {
	Address  string        `json:"address" yaml:"address"`
	Password string        `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int           `json:"db,omitempty" yaml:"db,omitempty"`
	Prefix   string        `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	TTL      time.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults
func DefaultConfig() *Config {
	return &Config{
		Tracing: TracingConfig{
			Service: "fluxtree",
			Version: "0.0.1",
		},
		Events: EventsConfig{
			Buffer:     100,
			MaxRetries: 3,
		},
	}
}

// Validate returns aggregated error describing invalid settings or nil
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Events.Buffer <= 0 {
		errs = append(errs, fmt.Errorf("events.buffer must be > 0"))
	}
	if c.Events.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("events.maxRetries must be >= 0"))
	}
	if c.Tracing.Enabled && c.Tracing.Service == "" {
		errs = append(errs, fmt.Errorf("tracing.service is required when tracing is enabled"))
	}
	if c.Runs.Redis != nil {
		if c.Runs.URL != "" {
			errs = append(errs, fmt.Errorf("runs.url and runs.redis are mutually exclusive"))
		}
		if c.Runs.Redis.Address == "" {
			errs = append(errs, fmt.Errorf("runs.redis.address is required"))
		}
	}
	if err := c.Policy.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoadConfig loads a YAML config from URL over DefaultConfig
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config from %s: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return ret, nil
}
