package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fluxion-ai/fluxion/pkg/log"
	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "fluxion",
		Usage:                 "Validate and run workflows from the command line",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Aliases:   []string{"v"},
				Usage:     "Statically validate a stored workflow",
				ArgsUsage: "<workflow-id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					return validateWorkflow(ctx, command)
				},
			},
			{
				Name:      "run",
				Aliases:   []string{"r"},
				Usage:     "Validate and execute a stored workflow",
				ArgsUsage: "<workflow-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "seed",
						Usage: "JSON object seeding the execution context",
						Value: "",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					return runWorkflow(ctx, command)
				},
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
