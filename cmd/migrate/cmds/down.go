package cmds

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/agentgraph/platform-api/internal/logger"
	"github.com/agentgraph/platform-api/internal/migrations"
)

var downConfirmed bool

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Rolls back every migration, dropping all platform data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !downConfirmed {
			return errors.New("refusing to roll back without --yes")
		}

		db, err := openDB()
		if err != nil {
			return err
		}

		if err := migrations.Down(cmd.Context(), db); err != nil {
			return err
		}

		logger.Logger.Info("database rolled back")
		return nil
	},
}

func init() {
	downCmd.Flags().
		BoolVar(&downConfirmed, "yes", false, "Confirm rolling back every migration")
	rootCmd.AddCommand(downCmd)
}
