package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/plantwatch/privacy/cmd/app/commands"
	"github.com/plantwatch/privacy/internal/app"
	"github.com/plantwatch/privacy/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "scheduler",
			Usage: "Start the lifecycle scheduler and metrics server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunScheduler(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "report",
			Usage: "Generate the compliance report",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				compliance, err := container.ComplianceUseCase()
				if err != nil {
					return err
				}

				return commands.RunReport(
					ctx,
					compliance,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "purge-deleted",
			Usage: "Physically remove records soft-deleted before the retention window",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "days",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Purge records soft-deleted more than this many days ago",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many records would be purged without purging",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				records, err := container.RecordUseCase()
				if err != nil {
					return err
				}

				runPurge := func(ctx context.Context) error {
					return commands.RunPurgeDeleted(
						ctx,
						records,
						container.Logger(),
						commands.DefaultIO().Writer,
						int(cmd.Int("days")),
						cmd.Bool("dry-run"),
						cmd.String("format"),
					)
				}

				// On SQL backends the physical delete and its audit entry
				// commit atomically.
				if cfg.StoreBackend != "memory" {
					txManager, err := container.TxManager()
					if err != nil {
						return err
					}
					return txManager.WithTx(ctx, runPurge)
				}
				return runPurge(ctx)
			},
		},
		{
			Name:  "clean-audit-entries",
			Usage: "Delete audit entries older than specified days",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "days",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Delete audit entries older than this many days",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many entries would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				audit, err := container.AuditUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanAuditEntries(
					ctx,
					audit,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
