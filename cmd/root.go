package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command; subcommands register themselves in init().
var rootCmd = &cobra.Command{
	Use:   "craftdeck",
	Short: "Terminal frontend for the craftdeck launcher backend",
	Long: `craftdeck manages local Minecraft instances through the native
launcher backend: create and launch instances, follow install progress,
browse mods and modpacks, and watch managed servers.

Run without arguments to open the interactive TUI.`,
	Run: func(cmd *cobra.Command, args []string) {
		runGUI()
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
