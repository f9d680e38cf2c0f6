package cmd

import (
	"context"
	"fmt"
	"os"

	"craftdeck/bridge"
	"craftdeck/launcher"
	"craftdeck/logger"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// createCmd installs a new instance and, by default, follows the install's
// progress events until it finishes.
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create and install a new instance",
	Long: `Create a new instance and ask the backend to install it.
Progress is followed on the event stream until the install completes.

Example: craftdeck create --name Survival --version 1.20.4`,
	Run: func(cmd *cobra.Command, _ []string) {
		name, _ := cmd.Flags().GetString("name")
		version, _ := cmd.Flags().GetString("version")
		modpack, _ := cmd.Flags().GetString("modpack")
		modpackVersion, _ := cmd.Flags().GetString("modpack-version")
		noFollow, _ := cmd.Flags().GetBool("no-follow")

		if name == "" || version == "" {
			logger.Log.Fatal("Error: --name and --version are required.")
		}
		runCreate(launcher.CreateRequest{
			Name:           name,
			Version:        version,
			Modpack:        modpack,
			ModpackVersion: modpackVersion,
		}, !noFollow)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().String("name", "", "Instance name")
	createCmd.Flags().String("version", "", "Minecraft version (e.g. 1.20.4)")
	createCmd.Flags().String("modpack", "", "Modpack slug to install")
	createCmd.Flags().String("modpack-version", "", "Modpack version")
	createCmd.Flags().Bool("no-follow", false, "Return immediately instead of following install progress")
}

func runCreate(req launcher.CreateRequest, follow bool) {
	_, client := bootstrap(".")
	registry := newRegistry(client)
	ctx := context.Background()

	// Subscribe before creating so no early event is missed.
	var sub *bridge.Subscription
	if follow {
		var err error
		sub, err = client.Subscribe(ctx)
		if err != nil {
			logger.Log.Fatalw("Failed to open event stream", zap.Error(err))
		}
		defer sub.Close()
	}

	id, err := registry.Create(ctx, req)
	if err != nil {
		logger.Log.Fatalw("Failed to create instance", zap.String("name", req.Name), zap.Error(err))
	}
	logger.Log.Infow("Install requested", zap.String("id", id), zap.String("name", req.Name))

	if !follow {
		fmt.Printf("Install of %q requested (id %s)\n", req.Name, id)
		return
	}

	reconciler := launcher.NewReconciler(registry, logger.Log)
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("Installing %s", req.Name)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for ev := range sub.Events {
		if ev.InstanceID != id {
			continue
		}
		reconciler.Apply(ev)

		inst, ok := registry.Get(id)
		if !ok {
			break
		}
		_ = bar.Set(inst.InstallProgress)

		switch inst.Status {
		case launcher.StatusReady:
			_ = bar.Finish()
			fmt.Printf("\nInstalled %q (%s)\n", inst.Name, inst.Version)
			return
		case launcher.StatusFailed:
			_ = bar.Close()
			fmt.Fprintf(os.Stderr, "\nInstall failed: %s\n", inst.ErrorMessage)
			os.Exit(1)
		}
	}
}
