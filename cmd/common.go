package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"craftdeck/bridge"
	"craftdeck/config"
	"craftdeck/db"
	"craftdeck/launcher"
	"craftdeck/logger"

	"go.uber.org/zap"
)

// bootstrap handles shared initialization logic for commands.
func bootstrap(path string) (config.Config, *bridge.Client) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	db.InitDatabase(cfg.DatabasePath)
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	client := bridge.NewClient(cfg.BackendSocket, cfg.UserAgent)
	return cfg, client
}

// newRegistry wires a registry to the backend client.
func newRegistry(client *bridge.Client) *launcher.Registry {
	return launcher.NewRegistry(client, logger.Log)
}

// sortInstances orders for display: pinned first, then most recently
// played, then by name; external records sink below managed ones within
// each group.
func sortInstances(instances []launcher.Instance, pinned map[string]bool) {
	sort.SliceStable(instances, func(i, j int) bool {
		a, b := instances[i], instances[j]
		if pinned[a.ID] != pinned[b.ID] {
			return pinned[a.ID]
		}
		if a.IsExternal != b.IsExternal {
			return !a.IsExternal
		}
		at, bt := playedAt(a), playedAt(b)
		if !at.Equal(bt) {
			return at.After(bt)
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

func playedAt(inst launcher.Instance) time.Time {
	if inst.LastPlayed == nil {
		return time.Time{}
	}
	return *inst.LastPlayed
}

// formatLastPlayed renders a LastPlayed stamp for table output.
func formatLastPlayed(inst launcher.Instance) string {
	if inst.LastPlayed == nil {
		return "never"
	}
	return inst.LastPlayed.Local().Format("2006-01-02 15:04")
}

// formatPlayTime renders total minutes as "3h 25m".
func formatPlayTime(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
