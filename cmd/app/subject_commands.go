package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/plantwatch/privacy/cmd/app/commands"
	"github.com/plantwatch/privacy/internal/app"
	"github.com/plantwatch/privacy/internal/config"
)

func getSubjectCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "erase",
			Usage: "Process a right-to-be-forgotten request for a data subject",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "subject",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Data subject identifier",
				},
				&cli.StringFlag{
					Name:    "reason",
					Aliases: []string{"r"},
					Value:   "data subject request",
					Usage:   "Reason recorded in the audit trail",
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

				erasure, err := container.ErasureUseCase()
				if err != nil {
					return err
				}

				return commands.RunErase(
					ctx,
					erasure,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("subject"),
					cmd.String("reason"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "export",
			Usage: "Export all personal data held for a data subject",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "subject",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Data subject identifier",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "json",
					Usage:   "Export format recorded on the document",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				exporter, err := container.ExportUseCase()
				if err != nil {
					return err
				}

				return commands.RunExport(
					ctx,
					exporter,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("subject"),
					cmd.String("format"),
				)
			},
		},
	}
}
