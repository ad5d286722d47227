package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/sonnes/logscrub/logfile"
	"github.com/sonnes/logscrub/report"
	"github.com/sonnes/logscrub/scrub"
	"github.com/urfave/cli/v3"
)

func previewCmd() *cli.Command {
	flags := append(ruleFlags(),
		encodingFlag(),
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Stop after showing this many changed lines, 0 for all",
			Value: 50,
		},
	)

	return &cli.Command{
		Name:      "preview",
		Usage:     "Show which lines would change, without writing anything",
		ArgsUsage: "INPUT",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.NArg() != 1 {
				return fmt.Errorf("expected INPUT, got %d arguments", cmd.NArg())
			}
			input := cmd.Args().Get(0)

			s, err := newScrubber(cfg)
			if err != nil {
				return err
			}

			r, err := logfile.Open(input, cfg.Encoding)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer r.Close()

			out := cmd.Root().Writer
			p := report.New(out)
			limit := cmd.Int("limit")

			lines, changed := 0, 0
			for limit <= 0 || changed < limit {
				if err := ctx.Err(); err != nil {
					return err
				}
				line, readErr := r.ReadLine()
				if line != "" {
					lines++
					scrubbed, err := s.Scrub(line)
					var ruleErr *scrub.RuleError
					switch {
					case errors.As(err, &ruleErr):
						log.Warn("rule failed, line left unscrubbed", "line", lines, "rule", ruleErr.Index, "err", ruleErr.Err)
					case err != nil:
						return fmt.Errorf("line %d: %w", lines, err)
					}
					if scrubbed != line {
						changed++
						p.Diff(lines, line, scrubbed)
					}
				}
				if errors.Is(readErr, io.EOF) {
					break
				}
				if readErr != nil {
					return fmt.Errorf("read %s: %w", input, readErr)
				}
			}

			fmt.Fprintf(out, "%d of %d lines read would change\n", changed, lines)
			return nil
		},
	}
}
