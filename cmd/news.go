package cmd

import (
	"context"
	"fmt"
	"os"

	"craftdeck/catalog"
	"craftdeck/pagination"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// newsCmd prints the launcher news feed.
var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Show launcher news",
	Run: func(cmd *cobra.Command, _ []string) {
		all, _ := cmd.Flags().GetBool("all")
		runNews(all)
	},
}

func init() {
	rootCmd.AddCommand(newsCmd)
	newsCmd.Flags().Bool("all", false, "Fetch every page, not just the first")
}

func runNews(all bool) {
	cfg, client := bootstrap(".")

	cursor := pagination.New(catalog.News(client), cfg.PageSize)
	drainCursor(context.Background(), cursor, all)

	items := cursor.Items()
	if len(items) == 0 {
		fmt.Println("No news.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Date", "Title", "Link"})
	for _, item := range items {
		table.Append([]string{item.Date, truncate(item.Title, 50), item.URL})
	}
	table.Render()
	printMore(cursor.HasMore())
}
