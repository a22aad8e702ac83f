// Package config provides configuration management for dtogen.
package config

import (
	"fmt"
	"strings"

	"github.com/solatis/dtogen/internal/types"
)

// GenerateConfig holds configuration for a generation run.
type GenerateConfig struct {
	Type     string // sample dto kind to generate
	Count    int
	MaxCount int
	Strict   bool // fail on properties no generator covers
	Log      LogConfig
	Store    StoreConfig
	Rules    []types.RuleSpec
}

// StoreConfig points at the fixture database. An empty URL disables storing.
type StoreConfig struct {
	URL string // sqlite://path or postgres://...
}

// LogConfig selects the zerolog level and output format.
type LogConfig struct {
	Level  string
	Format string
}

// DefaultGenerateConfig returns configuration with default values.
func DefaultGenerateConfig() *GenerateConfig {
	return &GenerateConfig{
		Type:     "person",
		Count:    5,
		MaxCount: 10000,
		Strict:   false,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// RulesFor returns the rules whose type matches typ.
func (c *GenerateConfig) RulesFor(typ string) []types.RuleSpec {
	var out []types.RuleSpec
	for _, r := range c.Rules {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}

// Validate checks count bounds, log settings and that every rule names a type.
func (c *GenerateConfig) Validate() error {
	if c.MaxCount <= 0 {
		return fmt.Errorf("generate.max_count must be positive, got %d", c.MaxCount)
	}
	if c.Count <= 0 || c.Count > c.MaxCount {
		return fmt.Errorf("generate.count must be between 1 and %d, got %d", c.MaxCount, c.Count)
	}
	if c.Type == "" {
		return fmt.Errorf("generate.type must not be empty")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	if u := c.Store.URL; u != "" && !strings.HasPrefix(u, "sqlite://") && !strings.HasPrefix(u, "postgres://") && !strings.HasPrefix(u, "postgresql://") {
		return fmt.Errorf("store.url must be a sqlite:// or postgres:// URL, got %q", u)
	}
	for i, r := range c.Rules {
		if r.Type == "" {
			return fmt.Errorf("rules[%d] (%q): type is required", i, r.Label)
		}
		if len(r.Edits) == 0 {
			return fmt.Errorf("rules[%d] (%q): at least one edit is required", i, r.Label)
		}
	}
	return nil
}
