package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names (DTOGEN_GENERATE_COUNT).
const EnvPrefix = "DTOGEN"

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence; flags are
// applied by the caller on the returned config.
func LoadConfig(configPath string) (*GenerateConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultGenerateConfig
	d := DefaultGenerateConfig()
	v.SetDefault("generate.type", d.Type)
	v.SetDefault("generate.count", d.Count)
	v.SetDefault("generate.max_count", d.MaxCount)
	v.SetDefault("generate.strict", d.Strict)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("store.url", d.Store.URL)

	// Bind environment variables with DTOGEN_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &GenerateConfig{
		Type:     v.GetString("generate.type"),
		Count:    v.GetInt("generate.count"),
		MaxCount: v.GetInt("generate.max_count"),
		Strict:   v.GetBool("generate.strict"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Store: StoreConfig{
			URL: v.GetString("store.url"),
		},
	}

	// Rules are only read from the config file
	if err := v.UnmarshalKey("rules", &cfg.Rules); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
