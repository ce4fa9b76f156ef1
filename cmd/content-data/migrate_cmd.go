package main

import (
	"github.com/spf13/cobra"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/infrastructure/persistence/schema"
	"github.com/praekeltfoundation/contentrepo-go/pkg/configuration"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connectDB(ctx, configuration.Use())
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := schema.Migrate(ctx, pool); err != nil {
				return withCode(exitDB, err)
			}
			return writeJSONLine(map[string]string{"status": "migrated"})
		},
	}
}
