package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"craftdeck/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// settingsCmd reads or writes backend-persisted launcher settings.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show launcher settings",
	Run: func(_ *cobra.Command, _ []string) {
		showSettings()
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Update one launcher setting",
	Long: `Update one launcher setting. Values that parse as numbers or booleans
are sent typed; everything else is sent as a string.

Example: craftdeck settings set maxMemoryMB 4096`,
	Args: cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		setSetting(args[0], args[1])
	},
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func showSettings() {
	_, client := bootstrap(".")

	settings, err := client.Settings(context.Background())
	if err != nil {
		logger.Log.Fatalw("Failed to load settings", zap.Error(err))
	}
	if len(settings) == 0 {
		fmt.Println("No settings stored.")
		return
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, _ := json.Marshal(settings[k])
		fmt.Printf("%s = %s\n", k, v)
	}
}

func setSetting(key, raw string) {
	_, client := bootstrap(".")

	var value any = raw
	if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	} else if n, err := strconv.ParseFloat(raw, 64); err == nil {
		value = n
	}

	if err := client.UpdateSettings(context.Background(), map[string]any{key: value}); err != nil {
		logger.Log.Fatalw("Failed to update setting", zap.String("key", key), zap.Error(err))
	}
	fmt.Printf("Updated %s\n", key)
}
