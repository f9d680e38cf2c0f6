package cmd

import (
	"context"
	"os"

	"craftdeck/db"
	"craftdeck/logger"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// instancesCmd lists every tracked instance, managed and external.
var instancesCmd = &cobra.Command{
	Use:   "instances",
	Short: "List all tracked instances",
	Long: `List all instances known to the launcher: backend-managed ones plus
installations detected from other launchers.`,
	Run: func(_ *cobra.Command, _ []string) {
		listInstances()
	},
}

func init() {
	rootCmd.AddCommand(instancesCmd)
}

func listInstances() {
	_, client := bootstrap(".")
	registry := newRegistry(client)

	if err := registry.Load(context.Background()); err != nil {
		logger.Log.Fatalw("Failed to load instances", zap.Error(err))
	}

	pinned, err := db.PinnedIDs()
	if err != nil {
		logger.Log.Warnw("Failed to load pins", zap.Error(err))
		pinned = map[string]bool{}
	}

	instances := registry.Snapshot()
	sortInstances(instances, pinned)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"", "Name", "Version", "Status", "Last Played", "Play Time", "Source"})
	for _, inst := range instances {
		pin := ""
		if pinned[inst.ID] {
			pin = "*"
		}
		source := "managed"
		if inst.IsExternal {
			source = inst.ExternalLauncher
			if source == "" {
				source = "external"
			}
		}
		status := string(inst.Status)
		if inst.ErrorMessage != "" {
			status += ": " + inst.ErrorMessage
		}
		table.Append([]string{
			pin,
			inst.Name,
			inst.Version,
			status,
			formatLastPlayed(inst),
			formatPlayTime(inst.TotalPlayTimeMin),
			source,
		})
	}
	table.Render()
}
