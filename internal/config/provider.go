// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the config directory lookup when set.
	ConfigDirPath string
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

type staticProvider struct {
	cfg *Config
}

// Static returns a Provider that ignores its options and yields a copy of cfg.
// A nil cfg yields DefaultConfig.
func Static(cfg *Config) Provider {
	return &staticProvider{cfg: cfg}
}

// Load returns the held configuration.
func (p *staticProvider) Load(ctx context.Context, _ LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.cfg == nil {
		return DefaultConfig(), nil
	}
	cp := *p.cfg
	cp.Watch.Ignore = append([]string(nil), p.cfg.Watch.Ignore...)
	return &cp, nil
}
