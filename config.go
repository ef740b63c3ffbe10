package procsim

import (
	"context"
	"fmt"

	"github.com/caedentelfer/procsim/service/loader/generator"
	"github.com/caedentelfer/procsim/service/scheduler"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the simulator configuration.
// It can be populated from YAML or JSON; the zero-value is useful since all
// nested fields inherit their package defaults.
type Config struct {
	Scheduler scheduler.Config `json:"scheduler" yaml:"scheduler"`
	Workload  WorkloadConfig   `json:"workload" yaml:"workload"`
	Log       LogConfig        `json:"log" yaml:"log"`
	Trace     TraceConfig      `json:"trace" yaml:"trace"`
}

// WorkloadConfig selects where processes come from: description files when
// SourceURL is set, a random workload otherwise.
type WorkloadConfig struct {
	SourceURL  string            `json:"sourceURL,omitempty" yaml:"sourceURL,omitempty"`
	ArrivalURL string            `json:"arrivalURL,omitempty" yaml:"arrivalURL,omitempty"`
	Generator  *generator.Config `json:"generator,omitempty" yaml:"generator,omitempty"`
}

// LogConfig controls the scheduler transcript destination.
type LogConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// TraceConfig controls run tracing output.
type TraceConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config populated with package defaults.
func DefaultConfig() *Config {
	return &Config{
		Scheduler: scheduler.DefaultConfig(),
		Log:       LogConfig{URL: "scheduler.log"},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if err := c.Scheduler.Validate(); err != nil {
		return err
	}
	if c.Workload.ArrivalURL != "" && c.Workload.SourceURL == "" {
		return fmt.Errorf("workload.arrivalURL requires workload.sourceURL")
	}
	if c.Workload.SourceURL != "" && c.Workload.Generator != nil {
		return fmt.Errorf("workload.sourceURL and workload.generator are mutually exclusive")
	}
	if c.Workload.Generator != nil {
		return c.Workload.Generator.Validate()
	}
	return nil
}

// LoadConfig reads a YAML configuration from the supplied URL.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %v: %w", URL, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return config, nil
}
