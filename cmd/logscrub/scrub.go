package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/sonnes/logscrub/logfile"
	"github.com/sonnes/logscrub/report"
	"github.com/sonnes/logscrub/scrub"
	"github.com/urfave/cli/v3"
)

func scrubCmd() *cli.Command {
	flags := append(ruleFlags(),
		encodingFlag(),
		&cli.BoolFlag{
			Name:  "inplace",
			Usage: "Atomically replace INPUT with the scrubbed output",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of lines scrubbed concurrently; output order is preserved (default: 1)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Do not print a summary",
		},
	)

	return &cli.Command{
		Name:      "scrub",
		Usage:     "Scrub a log file",
		ArgsUsage: "INPUT [OUTPUT]",
		Description: `Reads INPUT, applies every pattern to each line in order and writes the
result to OUTPUT in the same encoding. OUTPUT is written atomically: it only
appears once complete. With --inplace, INPUT itself is replaced.`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if cmd.NArg() < 1 || cmd.NArg() > 2 {
				return fmt.Errorf("expected INPUT [OUTPUT], got %d arguments", cmd.NArg())
			}
			input := cmd.Args().Get(0)
			output := cmd.Args().Get(1)

			switch {
			case cfg.Inplace:
				if output != "" && filepath.Clean(output) != filepath.Clean(input) {
					log.Warn("--inplace set, ignoring OUTPUT", "output", output)
				}
				output = input
			case output == "":
				return fmt.Errorf("OUTPUT is required unless --inplace is set")
			}

			s, err := newScrubber(cfg)
			if err != nil {
				return err
			}

			r, err := logfile.Open(input, cfg.Encoding)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer r.Close()
			if cfg.Encoding == "" {
				log.Info("detected encoding", "encoding", r.Encoding())
			}

			w, err := logfile.Create(output, r.Encoding())
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer w.Abort()
			if r.BOM() {
				if err := w.WriteBOM(); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
			}

			stats, err := scrub.Run(ctx, s, r, w, scrub.RunOptions{
				Workers: cfg.Workers,
				Logger:  log.Default(),
			})
			if err != nil {
				return fmt.Errorf("scrub %s: %w", input, err)
			}

			if err := w.Commit(); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			if cfg.Inplace {
				log.Info("file scrubbed in place", "path", input)
			}

			if !cmd.Bool("quiet") {
				report.New(cmd.Root().Writer).Summary(report.Summary{
					Input:    input,
					Output:   output,
					Inplace:  cfg.Inplace,
					Encoding: r.Encoding(),
					Policy:   s.Policy(),
					Rules:    s.Rules(),
					Stats:    stats,
				})
			}
			return nil
		},
	}
}
