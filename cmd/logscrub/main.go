package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRoot().Run(ctx, os.Args)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

func newRoot() *cli.Command {
	return &cli.Command{
		Name:  "logscrub",
		Usage: "Remove or replace sensitive data in log files",
		Description: `Applies an ordered list of regular expressions to every line of a log
file. Each match is deleted, replaced with literal text, or replaced with
realistic fake data (fake_name, fake_email, fake_address,
fake_phone_number, fake_credit_card_number).

A line on which any rule fails is written unchanged and reported.`,
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log level: debug, info, warn, error",
				Value: "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (default: ./logscrub.yaml or ~/.config/logscrub/logscrub.yaml)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := log.ParseLevel(cmd.String("log"))
			if err != nil {
				return ctx, err
			}
			log.SetLevel(level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			scrubCmd(),
			checkCmd(),
			previewCmd(),
		},
	}
}
