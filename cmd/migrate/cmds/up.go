package cmds

import (
	"github.com/spf13/cobra"

	"github.com/agentgraph/platform-api/internal/logger"
	"github.com/agentgraph/platform-api/internal/migrations"
)

var upToVersion int64

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Applies pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		if upToVersion > 0 {
			if err := migrations.UpTo(ctx, db, upToVersion); err != nil {
				return err
			}
		} else {
			if err := migrations.Up(ctx, db); err != nil {
				return err
			}
		}

		version, err := migrations.Version(ctx, db)
		if err != nil {
			return err
		}

		logger.Logger.Info("database migrated", "version", version)
		return nil
	},
}

func init() {
	upCmd.Flags().
		Int64Var(&upToVersion, "to", 0, "Migrate up to this version instead of the latest")
	rootCmd.AddCommand(upCmd)
}
