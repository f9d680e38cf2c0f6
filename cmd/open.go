package cmd

import (
	"context"
	"fmt"

	"craftdeck/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// openCmd opens an instance's game directory in the system file manager.
var openCmd = &cobra.Command{
	Use:   "open [name-or-id]",
	Short: "Open an instance's folder",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		openFolder(args[0])
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func openFolder(nameOrID string) {
	_, client := bootstrap(".")
	registry := newRegistry(client)
	ctx := context.Background()

	if err := registry.Load(ctx); err != nil {
		logger.Log.Fatalw("Failed to load instances", zap.Error(err))
	}

	inst, ok := findInstance(registry, nameOrID)
	if !ok {
		logger.Log.Fatalw("Instance not found", zap.String("instance", nameOrID))
	}
	if inst.GameDir == "" {
		logger.Log.Fatalw("Instance has no folder to open", zap.String("instance", inst.Name))
	}

	if err := client.OpenFolder(ctx, inst.GameDir); err != nil {
		logger.Log.Fatalw("Failed to open folder", zap.String("path", inst.GameDir), zap.Error(err))
	}
	fmt.Printf("Opened %s\n", inst.GameDir)
}
