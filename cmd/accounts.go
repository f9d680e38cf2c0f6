package cmd

import (
	"context"
	"fmt"
	"os"

	"craftdeck/logger"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// accountsCmd lists the backend-managed player accounts.
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List player accounts",
	Run: func(_ *cobra.Command, _ []string) {
		listAccounts()
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Add an account via device login",
	Long: `Start a device-code login. The backend drives the OAuth flow; this
prints the verification URL and code to complete it in a browser.`,
	Run: func(_ *cobra.Command, _ []string) {
		beginLogin()
	},
}

func init() {
	accountsCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(accountsCmd)
}

func listAccounts() {
	_, client := bootstrap(".")

	accounts, err := client.Accounts(context.Background())
	if err != nil {
		logger.Log.Fatalw("Failed to load accounts", zap.Error(err))
	}
	if len(accounts) == 0 {
		fmt.Println("No accounts. Run `craftdeck accounts login` to add one.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Username", "Type", "Active"})
	for _, a := range accounts {
		active := ""
		if a.Active {
			active = "yes"
		}
		table.Append([]string{a.Username, a.Type, active})
	}
	table.Render()
}

func beginLogin() {
	_, client := bootstrap(".")

	ticket, err := client.BeginLogin(context.Background())
	if err != nil {
		logger.Log.Fatalw("Failed to begin login", zap.Error(err))
	}
	fmt.Printf("Open %s and enter code %s\n", ticket.VerificationURL, ticket.UserCode)
}
