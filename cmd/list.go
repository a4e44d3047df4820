package cmd

import (
	"fmt"

	"ignorebtc/internal/db"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.NewDB(dbPath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close()

		keys, err := database.ListReports(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list reports: %w", err)
		}
		for _, k := range keys {
			fmt.Printf("%s\t%s\n", k.TxID, k.Algorithm)
		}
		return nil
	},
}
