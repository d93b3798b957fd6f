package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/linkbio/cmd"
	"github.com/axellelanca/linkbio/internal/database"
)

// MigrateCmd creates or updates the database tables.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `This command connects to the configured SQLite database and runs GORM
automatic migrations for the profiles, links, domains and click_events tables.`,
	RunE: func(c *cobra.Command, _ []string) error {
		db, err := cmd.OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		fmt.Fprintln(c.OutOrStdout(), "Database migrations executed successfully.")
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
