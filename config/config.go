package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are loaded by Viper from a config file and/or environment variables.
type Config struct {
	BackendSocket    string `mapstructure:"BACKEND_SOCKET"`
	MinecraftDir     string `mapstructure:"MINECRAFT_DIR"`
	PageSize         int    `mapstructure:"PAGE_SIZE"`
	PollIntervalSecs int    `mapstructure:"POLL_INTERVAL_SECONDS"`
	UserAgent        string `mapstructure:"USERAGENT"`
	DatabasePath     string `mapstructure:"-"` // Not from env, derived
}

// PollInterval returns the server-status poll cadence as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSecs) * time.Second
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env") // REQUIRED if the config file does not have the extension in the name

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	viper.AutomaticEnv()

	for key, env := range map[string]string{
		"backend_socket":        "BACKEND_SOCKET",
		"minecraft_dir":         "MINECRAFT_DIR",
		"page_size":             "PAGE_SIZE",
		"poll_interval_seconds": "POLL_INTERVAL_SECONDS",
		"useragent":             "USERAGENT",
	} {
		if bindErr := viper.BindEnv(key, env); bindErr != nil {
			slog.Warn("Unable to bind env var", "var", env, "error", bindErr)
		}
	}

	if vipErr = viper.Unmarshal(&config); vipErr != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", vipErr)
	}

	processConfigDefaults(&config)

	// The local UI-state database lives next to the log, in the user's
	// config directory. Instance and settings persistence belong to the
	// backend; this file only holds pins and search history.
	configDir, dirErr := os.UserConfigDir()
	if dirErr != nil {
		configDir = "."
	}
	appDir := filepath.Join(configDir, "craftdeck")
	if mkErr := os.MkdirAll(appDir, 0755); mkErr != nil {
		slog.Warn("Failed to create config directory, using working directory", "path", appDir, "error", mkErr)
		appDir = "."
	}
	config.DatabasePath = filepath.Join(appDir, "craftdeck.db")

	return config, nil
}

// processConfigDefaults fills in defaults for values not supplied by the
// environment or config file.
func processConfigDefaults(cfg *Config) {
	if cfg.BackendSocket == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.BackendSocket = filepath.Join(home, ".craftdeck", "backend.sock")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.PollIntervalSecs <= 0 {
		cfg.PollIntervalSecs = 5
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "craftdeck/dev (unknown-user)"
	}
}
