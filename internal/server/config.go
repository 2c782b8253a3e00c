package server

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the serving-layer settings. Everything outside this struct
// (scenario parameters and the like) arrives per-request.
type Config struct {
	ListenAddr     string   `mapstructure:"listen_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	DatabaseDSN    string   `mapstructure:"database_dsn"`
	TelegramToken  string   `mapstructure:"telegram_token"`
	TelegramChatID string   `mapstructure:"telegram_chat_id"`
	// DemoSeed seeds the fixture-data generator; 0 means time-seeded.
	DemoSeed int64 `mapstructure:"demo_seed"`
}

// LoadConfig reads server settings from an optional YAML file with
// CRISISFORGE_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("listen_addr", ":8000")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetEnvPrefix("CRISISFORGE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading server config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	return &cfg, nil
}
