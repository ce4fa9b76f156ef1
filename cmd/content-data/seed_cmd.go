package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/infrastructure/persistence"
	"github.com/praekeltfoundation/contentrepo-go/pkg/composables"
	"github.com/praekeltfoundation/contentrepo-go/pkg/configuration"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create a home page for every configured locale",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conf := configuration.Use()
			registry, err := locale.NewRegistry(conf.LocaleCodes()...)
			if err != nil {
				return fmt.Errorf("CONTENT_LOCALES: %w", err)
			}

			pool, err := connectDB(ctx, conf)
			if err != nil {
				return err
			}
			defer pool.Close()
			ctx = composables.WithPool(ctx, pool)

			pages := persistence.NewPgPageRepository()
			seeded := make([]string, 0, len(registry.All()))
			err = composables.InTx(ctx, func(txCtx context.Context) error {
				for _, loc := range registry.All() {
					home, err := pages.EnsureHomePage(txCtx, loc)
					if err != nil {
						return err
					}
					seeded = append(seeded, home.Locale().Code())
				}
				return nil
			})
			if err != nil {
				return withCode(exitDB, err)
			}
			return writeJSONLine(map[string]any{"status": "seeded", "locales": seeded})
		},
	}
}
