package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/lemu/seamless-sea-sub000/modules"
	"github.com/lemu/seamless-sea-sub000/modules/chartering"
	"github.com/lemu/seamless-sea-sub000/pkg/application"
	"github.com/lemu/seamless-sea-sub000/pkg/configuration"
	"github.com/lemu/seamless-sea-sub000/pkg/eventbus"
)

func newRootCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Populate the chartering database with demo fixtures and bookmarks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "seed without running pending migrations first")
	return cmd
}

func run(ctx context.Context, skipMigrations bool) error {
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	connectCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(connectCtx, conf.Database.Opts)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	builtIn := modules.BuiltInModules(&chartering.ModuleOptions{})
	if err := modules.Load(app, builtIn...); err != nil {
		return fmt.Errorf("load modules: %w", err)
	}
	if !skipMigrations {
		if err := app.RunMigrations(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	seeder := application.NewSeeder()
	seeder.Register(chartering.SeedDemoData)
	if err := seeder.Seed(ctx, app); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	logger.WithField("organization", chartering.DemoOrganizationID).
		WithField("user", chartering.DemoUserID).
		Info("demo data seeded")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
