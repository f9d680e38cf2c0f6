package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestProcessConfigDefaults(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{}
		processConfigDefaults(&cfg)

		if cfg.BackendSocket == "" {
			t.Error("Expected BackendSocket to have a default value")
		}
		if cfg.PageSize != 20 {
			t.Errorf("Expected PageSize to be 20, got %d", cfg.PageSize)
		}
		if cfg.PollIntervalSecs != 5 {
			t.Errorf("Expected PollIntervalSecs to be 5, got %d", cfg.PollIntervalSecs)
		}
		if cfg.UserAgent == "" {
			t.Error("Expected UserAgent to have a default value")
		}
	})

	t.Run("respects existing values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{
			BackendSocket:    "/tmp/other.sock",
			PageSize:         50,
			PollIntervalSecs: 30,
			UserAgent:        "custom-agent",
		}
		processConfigDefaults(&cfg)

		if cfg.BackendSocket != "/tmp/other.sock" {
			t.Errorf("Expected BackendSocket to be preserved, got %s", cfg.BackendSocket)
		}
		if cfg.PageSize != 50 {
			t.Errorf("Expected PageSize to be preserved, got %d", cfg.PageSize)
		}
		if cfg.UserAgent != "custom-agent" {
			t.Errorf("Expected UserAgent to be preserved, got %s", cfg.UserAgent)
		}
	})

	t.Run("negative page size falls back to default", func(t *testing.T) {
		viper.Reset()
		cfg := Config{PageSize: -3}
		processConfigDefaults(&cfg)

		if cfg.PageSize != 20 {
			t.Errorf("Expected PageSize to be 20, got %d", cfg.PageSize)
		}
	})
}

func TestPollInterval(t *testing.T) {
	cfg := Config{PollIntervalSecs: 7}
	if cfg.PollInterval() != 7*time.Second {
		t.Errorf("Expected 7s, got %s", cfg.PollInterval())
	}
}
