package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alanyang/support-router/internal/domain/assignment"
	portassign "github.com/alanyang/support-router/internal/port/assignment"
)

var _ portassign.TenantStrategyConfig = (*StrategyConfig)(nil)

// StrategyConfig is a static tenant strategy table read from YAML:
//
//	custom_strategies:
//	  vip_first: least_open
//	tenants:
//	  acme:
//	    default: least_open
//	    queues:
//	      billing: round_robin
//
// Entries missing from the file are looked up in the fallback, if any.
type StrategyConfig struct {
	CustomStrategies map[string]string       `yaml:"custom_strategies"`
	Tenants          map[string]TenantConfig `yaml:"tenants"`

	fallback portassign.TenantStrategyConfig
}

type TenantConfig struct {
	Default string            `yaml:"default"`
	Queues  map[string]string `yaml:"queues"`
}

// Load reads a strategy table from path.
func Load(path string) (*StrategyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*StrategyConfig, error) {
	var cfg StrategyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse strategy file: %w", err)
	}
	if cfg.CustomStrategies == nil {
		cfg.CustomStrategies = make(map[string]string)
	}
	if cfg.Tenants == nil {
		cfg.Tenants = make(map[string]TenantConfig)
	}
	return &cfg, nil
}

// WithFallback sets the config consulted for tenants and queues the file does
// not mention.
func (c *StrategyConfig) WithFallback(next portassign.TenantStrategyConfig) *StrategyConfig {
	c.fallback = next
	return c
}

func (c *StrategyConfig) Lookup(ctx context.Context, tenantID, groupKey string) (string, bool, error) {
	if t, ok := c.Tenants[tenantID]; ok {
		if groupKey != "" {
			if key, ok := t.Queues[groupKey]; ok {
				return key, true, nil
			}
		}
		if t.Default != "" {
			return t.Default, true, nil
		}
	}
	if c.fallback != nil {
		return c.fallback.Lookup(ctx, tenantID, groupKey)
	}
	return "", false, nil
}

// RegisterCustom adds the file's custom strategy aliases to reg. A custom key
// may alias another custom key.
func (c *StrategyConfig) RegisterCustom(reg *assignment.Registry) error {
	if err := reg.RegisterAliases(c.CustomStrategies); err != nil {
		return fmt.Errorf("custom strategies: %w", err)
	}
	return nil
}
