package cmds

import (
	"github.com/spf13/cobra"

	"github.com/agentgraph/platform-api/internal/migrations"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints the status of every known migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		return migrations.Status(cmd.Context(), db)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
