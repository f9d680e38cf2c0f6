package cmd

import (
	"context"
	"fmt"
	"os"

	"craftdeck/catalog"
	"craftdeck/db"
	"craftdeck/logger"
	"craftdeck/pagination"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// searchCmd searches the mod or modpack catalog through the backend.
var searchCmd = &cobra.Command{
	Use:   "search [mods|modpacks] [query]",
	Short: "Search mods or modpacks",
	Long: `Search the catalog through the backend.

Examples:
  craftdeck search mods sodium
  craftdeck search modpacks "all the mods" --all`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		kind := args[0]
		query := ""
		if len(args) > 1 {
			query = args[1]
		}
		gameVersion, _ := cmd.Flags().GetString("game-version")
		category, _ := cmd.Flags().GetString("category")
		all, _ := cmd.Flags().GetBool("all")
		limit, _ := cmd.Flags().GetInt("limit")

		runSearch(kind, catalog.SearchParams{
			Query:       query,
			GameVersion: gameVersion,
			Category:    category,
		}, limit, all)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("game-version", "", "Filter by Minecraft version")
	searchCmd.Flags().String("category", "", "Filter by category")
	searchCmd.Flags().Bool("all", false, "Fetch every page, not just the first")
	searchCmd.Flags().Int("limit", 0, "Page size (defaults to configured PAGE_SIZE)")
}

func runSearch(kind string, params catalog.SearchParams, limit int, all bool) {
	cfg, client := bootstrap(".")
	if limit <= 0 {
		limit = cfg.PageSize
	}
	ctx := context.Background()

	if err := db.RecordSearch(kind, params.Query); err != nil {
		logger.Log.Warnw("Failed to record search history", zap.Error(err))
	}

	switch kind {
	case "mods":
		cursor := pagination.New(catalog.ModSearch(client, params), limit)
		drainCursor(ctx, cursor, all)
		renderMods(cursor.Items())
		printMore(cursor.HasMore())
	case "modpacks":
		cursor := pagination.New(catalog.ModpackSearch(client, params), limit)
		drainCursor(ctx, cursor, all)
		renderModpacks(cursor.Items())
		printMore(cursor.HasMore())
	default:
		logger.Log.Fatalw("Unknown search kind", zap.String("kind", kind))
	}
}

// drainCursor loads the first page, then every remaining page when all is set.
func drainCursor[T any](ctx context.Context, cursor *pagination.Cursor[T], all bool) {
	if err := cursor.Refresh(ctx); err != nil {
		logger.Log.Fatalw("Search failed", zap.Error(err))
	}
	for all && cursor.HasMore() {
		if err := cursor.LoadMore(ctx); err != nil {
			logger.Log.Fatalw("Search failed", zap.Error(err))
		}
	}
}

func renderMods(mods []catalog.ModResult) {
	if len(mods) == 0 {
		fmt.Println("No results.")
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Slug", "Title", "Downloads", "Description"})
	for _, m := range mods {
		table.Append([]string{m.Slug, m.Title, fmt.Sprintf("%d", m.Downloads), truncate(m.Description, 60)})
	}
	table.Render()
}

func renderModpacks(packs []catalog.ModpackResult) {
	if len(packs) == 0 {
		fmt.Println("No results.")
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Slug", "Title", "MC Version", "Downloads"})
	for _, p := range packs {
		table.Append([]string{p.Slug, p.Title, p.GameVersion, fmt.Sprintf("%d", p.Downloads)})
	}
	table.Render()
}

func printMore(hasMore bool) {
	if hasMore {
		fmt.Println("More results available; pass --all to fetch everything.")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
