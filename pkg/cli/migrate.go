package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/andreycorp/grocfriend/pkg/repository/postgres"
	"github.com/andreycorp/grocfriend/pkg/utils/logging"
)

func cmdMigrate() *cli.Command {
	var dsn string

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Apply the Postgres schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "database-dsn",
				Usage:       "Postgres connection string (required)",
				Required:    true,
				Sources:     cli.EnvVars("GROCFRIEND_DATABASE_DSN"),
				Destination: &dsn,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			client, err := postgres.New(ctx, dsn)
			if err != nil {
				return goerr.Wrap(err, "failed to connect to postgres")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close postgres client", "error", err.Error())
				}
			}()

			logger.Info("Applying migrations")
			if err := client.Migrate(ctx); err != nil {
				return goerr.Wrap(err, "failed to apply migrations")
			}
			logger.Info("Migrations applied successfully")

			return nil
		},
	}
}
