package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/configs"
	"github.com/Rakhulsr/sho-storefront/app/db/seeders"
	"github.com/Rakhulsr/sho-storefront/app/models/migrations"
	"github.com/Rakhulsr/sho-storefront/app/utils/logger"
)

// Run parses args and executes the selected command. With no command the
// HTTP server starts.
func Run(ctx context.Context, args []string) error {
	env := configs.LoadEnv()

	log, err := logger.New(env.AppEnv, env.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	serve := func(ctx context.Context, c *cli.Command) error {
		return Serve(ctx, env, log)
	}

	cmd := &cli.Command{
		Name:   env.AppName,
		Usage:  "storefront server and maintenance commands",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, log)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Info("migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Load a demo catalog, an admin and some customers",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "admin-email", Value: "admin@sho.local"},
					&cli.StringFlag{Name: "admin-password", Value: "admin12345"},
					&cli.IntFlag{Name: "customers", Value: 5},
					&cli.IntFlag{Name: "products", Value: 8, Usage: "products per category"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, log)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					return seeders.DBSeed(ctx, db, seeders.Options{
						AdminEmail:          c.String("admin-email"),
						AdminPassword:       c.String("admin-password"),
						Customers:           int(c.Int("customers")),
						ProductsPerCategory: int(c.Int("products")),
					}, log)
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate session and CSRF keys into an env file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "env-file", Value: ".env"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateAndPrintSessionKeys(c.String("env-file")); err != nil {
						return err
					}
					log.Info("key generation complete", zap.String("env_file", c.String("env-file")))
					return nil
				},
			},
		},
	}

	return cmd.Run(ctx, args)
}
