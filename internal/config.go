package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// MockCqlConfig tunes engine behavior. Every knob has a default, so a zero
// config file (or none at all) yields a working instance.
type MockCqlConfig struct {
	// StrictUpdate turns off the upsert behavior of UPDATE: a primary key
	// that matches no row affects nothing instead of creating one.
	StrictUpdate bool `mapstructure:"strict_update"`

	// SystemTables seeds the system and system_schema keyspaces.
	SystemTables bool `mapstructure:"system_tables"`

	// Replication is the default replication used when tests create
	// keyspaces through helpers rather than explicit DDL.
	Replication struct {
		Class  string `mapstructure:"class"`
		Factor int    `mapstructure:"factor"`
	} `mapstructure:"replication"`

	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *MockCqlConfig {
	cfg := &MockCqlConfig{
		SystemTables: true,
		LogLevel:     "info",
	}
	cfg.Replication.Class = "SimpleStrategy"
	cfg.Replication.Factor = 1
	return cfg
}

// LoadConfig reads a yaml config file and applies MOCKCQL_* environment
// overrides on top of the defaults.
func LoadConfig(path string) (*MockCqlConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MOCKCQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("strict_update", defaults.StrictUpdate)
	v.SetDefault("system_tables", defaults.SystemTables)
	v.SetDefault("replication.class", defaults.Replication.Class)
	v.SetDefault("replication.factor", defaults.Replication.Factor)
	v.SetDefault("log_level", defaults.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg MockCqlConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
