package cmd

import (
	"context"
	"fmt"

	"craftdeck/launcher"
	"craftdeck/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// deleteCmd removes an instance. External instances disappear from the
// list only; the backend is never asked to touch another launcher's files.
var deleteCmd = &cobra.Command{
	Use:   "delete [name-or-id]",
	Short: "Delete an instance",
	Long: `Delete an instance by name or id. Managed instances are removed by the
backend; externally-detected instances are only removed from the list.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		deleteInstance(args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

// findInstance resolves a user-supplied name or id against the registry.
func findInstance(registry *launcher.Registry, nameOrID string) (launcher.Instance, bool) {
	if inst, ok := registry.Get(nameOrID); ok {
		return inst, true
	}
	for _, inst := range registry.Snapshot() {
		if inst.Name == nameOrID {
			return inst, true
		}
	}
	return launcher.Instance{}, false
}

func deleteInstance(nameOrID string) {
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

	if err := registry.Delete(ctx, inst.ID); err != nil {
		logger.Log.Fatalw("Failed to delete instance", zap.String("id", inst.ID), zap.Error(err))
	}
	fmt.Printf("Deleted %q\n", inst.Name)
}
