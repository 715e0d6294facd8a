package cmd

import (
	"fmt"

	"github.com/spf13/viper"
)

// BenchConfig holds the settings for every scenario a single parataskbench
// run executes.
type BenchConfig struct {
	Length     int      `mapstructure:"length"`
	Schedulers []string `mapstructure:"schedulers"`
	ChunkCount int      `mapstructure:"chunk_count"`
	Greedy     struct {
		Tasks int `mapstructure:"tasks"`
	} `mapstructure:"greedy"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// loadConfig reads configuration from configPath (if set) and the
// environment, falling back to defaults for anything left unset.
func loadConfig(configPath string) (*BenchConfig, error) {
	v := viper.New()
	setConfigDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parataskbench: reading config: %w", err)
		}
	}

	v.SetEnvPrefix("PARATASKBENCH")
	v.AutomaticEnv()

	var cfg BenchConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parataskbench: unmarshalling config: %w", err)
	}
	if cfg.Length < 1 {
		return nil, fmt.Errorf("parataskbench: length must be >= 1, got %d", cfg.Length)
	}
	return &cfg, nil
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("length", 1_000_000)
	v.SetDefault("schedulers", []string{"serial", "dynamic", "static", "greedy"})
	v.SetDefault("chunk_count", 16)
	v.SetDefault("greedy.tasks", 0)
	v.SetDefault("log.level", "info")
}
