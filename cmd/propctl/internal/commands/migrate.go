package commands

import (
	"github.com/spf13/cobra"

	"propapi/internal/database/migration"
)

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			return migration.EnsureMigrated(cmd.Context(), db, e.logger, e.cfg.Database.Host)
		},
	}
}
