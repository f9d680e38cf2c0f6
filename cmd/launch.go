package cmd

import (
	"context"
	"fmt"

	"craftdeck/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// launchCmd starts the game for an instance.
var launchCmd = &cobra.Command{
	Use:   "launch [name-or-id]",
	Short: "Launch an instance",
	Long:  `Launch an instance by name or id via the backend.`,
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		launchInstance(args[0])
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)
}

func launchInstance(nameOrID string) {
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

	if err := registry.Launch(ctx, inst.ID); err != nil {
		logger.Log.Fatalw("Failed to launch instance", zap.String("id", inst.ID), zap.Error(err))
	}
	fmt.Printf("Launched %q (%s)\n", inst.Name, inst.Version)
}
