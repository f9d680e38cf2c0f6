package cmd

import (
	"context"
	"fmt"
	"os"

	"craftdeck/launcher"
	"craftdeck/logger"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// detectCmd rescans for installations from other launchers.
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Scan for instances from other launchers",
	Long: `Ask the backend to scan known install locations of other launchers
(Prism, MultiMC, CurseForge, ...) and list what it finds. Detected instances
are read-only: they can be launched but not modified or deleted on disk.`,
	Run: func(_ *cobra.Command, _ []string) {
		detectExternal()
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func detectExternal() {
	_, client := bootstrap(".")

	found := launcher.DetectExternal(context.Background(), client, logger.Log)
	if len(found) == 0 {
		fmt.Println("No external instances found.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Version", "Launcher", "Path", "Status"})
	for _, inst := range found {
		status := string(inst.Status)
		if inst.ErrorMessage != "" {
			status += ": " + inst.ErrorMessage
		}
		table.Append([]string{inst.Name, inst.Version, inst.ExternalLauncher, inst.GameDir, status})
	}
	table.Render()
}
