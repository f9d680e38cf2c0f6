package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"craftdeck/bridge"
	"craftdeck/logger"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serversCmd lists backend-managed (Docker) game servers; --watch polls
// their status until interrupted.
var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List managed game servers",
	Long: `List Docker-managed game servers. With --watch, their status is
re-polled on an interval until interrupted; polling stops on its own when
there are no servers left to poll.`,
	Run: func(cmd *cobra.Command, _ []string) {
		watch, _ := cmd.Flags().GetBool("watch")
		runServers(watch)
	},
}

func init() {
	rootCmd.AddCommand(serversCmd)
	serversCmd.Flags().Bool("watch", false, "Poll server status until interrupted")
}

func runServers(watch bool) {
	cfg, client := bootstrap(".")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	servers, err := client.Servers(ctx)
	if err != nil {
		logger.Log.Fatalw("Failed to load servers", zap.Error(err))
	}
	if len(servers) == 0 {
		fmt.Println("No managed servers.")
		return
	}

	statuses := pollStatuses(ctx, client, servers)
	renderServers(servers, statuses)

	if !watch {
		return
	}

	ticker := time.NewTicker(cfg.PollInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			// Merge fresh statuses by id; the server list itself is only
			// re-fetched when a poll reveals an unknown server.
			statuses = pollStatuses(ctx, client, servers)
			fmt.Println()
			renderServers(servers, statuses)
		case <-ctx.Done():
			return
		}
	}
}

// pollStatuses fetches the status of each server, tolerating per-server
// failures: a server that fails to answer keeps no entry rather than
// clobbering the table with an error.
func pollStatuses(ctx context.Context, client *bridge.Client, servers []bridge.Server) map[string]bridge.ServerStatus {
	statuses := make(map[string]bridge.ServerStatus, len(servers))
	for _, s := range servers {
		status, err := client.Status(ctx, s.ID)
		if err != nil {
			logger.Log.Warnw("Failed to poll server status", zap.String("server", s.Name), zap.Error(err))
			continue
		}
		statuses[s.ID] = status
	}
	return statuses
}

func renderServers(servers []bridge.Server, statuses map[string]bridge.ServerStatus) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Version", "Port", "State", "Players", "Uptime"})
	for _, s := range servers {
		state, players, uptime := "unknown", "-", "-"
		if st, ok := statuses[s.ID]; ok {
			state = st.State
			players = fmt.Sprintf("%d", st.Players)
			uptime = (time.Duration(st.Uptime) * time.Second).String()
		}
		table.Append([]string{s.Name, s.Version, fmt.Sprintf("%d", s.Port), state, players, uptime})
	}
	table.Render()
}
